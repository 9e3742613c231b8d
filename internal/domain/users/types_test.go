package users

import "testing"

func TestPasswordSetAndCompare(t *testing.T) {
	var p password
	if err := p.Set("correct horse battery staple"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Compare("correct horse battery staple"); err != nil {
		t.Fatalf("matching password rejected: %v", err)
	}
	if err := p.Compare("wrong password"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if len(p.Hash()) == 0 {
		t.Fatal("hash is empty after Set")
	}
}
