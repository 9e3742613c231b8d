// Package payments implements the hosted-gateway redirect protocol:
// canonical query encoding, HMAC-SHA512 signing and the callback
// reconciliation that settles orders.
package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"sort"
	"strings"
)

const (
	FieldSecureHash     = "vnp_SecureHash"
	FieldSecureHashType = "vnp_SecureHashType"
)

const upperhex = "0123456789ABCDEF"

// encodeComponent percent-encodes s the way the gateway expects:
// alphanumerics and -_.!~*'() pass through, everything else becomes
// uppercase %XX per byte. Keys stay in this form; values additionally
// swap %20 for '+' (see encodeValue).
func encodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '!' || c == '~' ||
			c == '*' || c == '\'' || c == '(' || c == ')':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

func encodeValue(s string) string {
	return strings.ReplaceAll(encodeComponent(s), "%20", "+")
}

// Canonicalize produces the deterministic signing string for params:
// signature fields removed, keys and values component-encoded, pairs
// sorted by encoded key and joined as a query string. Both sides of
// the protocol must agree on this form byte for byte.
func Canonicalize(params map[string]string) string {
	pairs := make([][2]string, 0, len(params))
	for k, v := range params {
		if k == FieldSecureHash || k == FieldSecureHashType {
			continue
		}
		pairs = append(pairs, [2]string{encodeComponent(k), encodeValue(v)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(p[1])
	}
	return b.String()
}

// Sign returns the lowercase hex HMAC-SHA512 of the canonical form of
// params under secret.
func Sign(secret string, params map[string]string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(Canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the expected signature for
// params. Comparison is constant time; an empty signature never
// verifies.
func Verify(secret string, params map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(secret, params)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
