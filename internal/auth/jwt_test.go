package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "storefront", "storefront",
		time.Hour, 24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(42, []string{"user", "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := a.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("access token failed validation: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	if sub := claims["sub"].(float64); int64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	roles, ok := claims["roles"].([]any)
	if !ok || len(roles) != 2 || roles[0] != "user" || roles[1] != "admin" {
		t.Fatalf("roles claim = %v", claims["roles"])
	}

	if _, err := a.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("refresh token failed validation: %v", err)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(1, []string{"user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := a.ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := a.ValidateRefreshToken(access); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	a := newTestAuthenticator()
	other := NewJWTAuthenticator("other-secret", "other-refresh", "storefront", "storefront",
		time.Hour, 24*time.Hour)

	access, _, err := other.GenerateTokens(1, []string{"user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := a.ValidateAccessToken(access); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}
