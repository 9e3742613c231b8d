package payments

import (
	"strings"
	"testing"
)

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"a b c", "a%20b%20c"},
		{"k=v&x", "k%3Dv%26x"},
		{"100%", "100%25"},
		{"/path?q", "%2Fpath%3Fq"},
	}
	for _, tt := range tests {
		if got := encodeComponent(tt.in); got != tt.want {
			t.Errorf("encodeComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Values swap %20 for '+'; keys keep the raw percent form.
func TestEncodeValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b c", "a+b+c"},
		{"Thanh toan cho ma don hang: A1", "Thanh+toan+cho+ma+don+hang%3A+A1"},
		{"no-spaces", "no-spaces"},
	}
	for _, tt := range tests {
		if got := encodeValue(tt.in); got != tt.want {
			t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalizeKeyWithSpace(t *testing.T) {
	got := Canonicalize(map[string]string{
		"odd key": "some value",
	})
	want := "odd%20key=some+value"
	if got != want {
		t.Fatalf("canonical form = %q, want %q", got, want)
	}
}

func TestCanonicalizeSortsAndDropsSignatureFields(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":        "ORD1",
		"vnp_Amount":        "150000",
		"vnp_Command":       "pay",
		FieldSecureHash:     "deadbeef",
		FieldSecureHashType: "HMACSHA512",
	}
	got := Canonicalize(params)
	want := "vnp_Amount=150000&vnp_Command=pay&vnp_TxnRef=ORD1"
	if got != want {
		t.Fatalf("canonical form = %q, want %q", got, want)
	}
}

func TestCanonicalizeEncodesValues(t *testing.T) {
	got := Canonicalize(map[string]string{
		"vnp_OrderInfo": "Thanh toan cho ma don hang: ORD1",
		"vnp_ReturnUrl": "https://shop.example.com/return",
	})
	want := "vnp_OrderInfo=Thanh+toan+cho+ma+don+hang%3A+ORD1" +
		"&vnp_ReturnUrl=https%3A%2F%2Fshop.example.com%2Freturn"
	if got != want {
		t.Fatalf("canonical form = %q, want %q", got, want)
	}
}

func TestSignDeterministicAndOrderIndependent(t *testing.T) {
	a := map[string]string{"vnp_TxnRef": "ORD1", "vnp_Amount": "100"}
	b := map[string]string{"vnp_Amount": "100", "vnp_TxnRef": "ORD1"}

	sigA := Sign("secret", a)
	sigB := Sign("secret", b)
	if sigA != sigB {
		t.Fatalf("signature depends on map order: %q vs %q", sigA, sigB)
	}
	if len(sigA) != 128 {
		t.Fatalf("signature length = %d, want 128 hex chars", len(sigA))
	}
	if sigA != strings.ToLower(sigA) {
		t.Fatalf("signature not lowercase: %q", sigA)
	}
	if Sign("other", a) == sigA {
		t.Fatal("different secrets produced identical signatures")
	}
}

func TestVerify(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":       "ORD1",
		"vnp_Amount":       "15000000",
		"vnp_ResponseCode": "00",
	}
	sig := Sign("secret", params)

	if !Verify("secret", params, sig) {
		t.Fatal("valid signature rejected")
	}
	if !Verify("secret", params, strings.ToUpper(sig)) {
		t.Fatal("uppercase signature rejected")
	}
	if Verify("secret", params, "") {
		t.Fatal("empty signature accepted")
	}
	if Verify("wrong", params, sig) {
		t.Fatal("signature accepted under wrong secret")
	}

	params["vnp_Amount"] = "1"
	if Verify("secret", params, sig) {
		t.Fatal("signature accepted after parameter tampering")
	}
}

func TestVerifyIgnoresAttachedSignatureFields(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef": "ORD1",
		"vnp_Amount": "100",
	}
	sig := Sign("secret", params)

	// The callback carries the signature inside the same parameter
	// set it signs over.
	params[FieldSecureHash] = sig
	params[FieldSecureHashType] = "HMACSHA512"
	if !Verify("secret", params, sig) {
		t.Fatal("signature rejected when hash fields present in params")
	}
}
