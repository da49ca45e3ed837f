package token

import (
	"encoding/base64"
	"testing"
)

func TestGenerateIsURLSafeAndFullEntropy(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token %q is not raw url base64: %v", tok, err)
	}
	if len(raw) != Size {
		t.Errorf("decoded length = %d, want %d", len(raw), Size)
	}
}

func TestGenerateProducesDistinctTokens(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}
