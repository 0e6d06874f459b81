package codes

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	code, err := New(JewelryPrefix)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(code, "JWL-") {
		t.Fatalf("expected JWL- prefix got %s", code)
	}
	if len(code) != len(JewelryPrefix)+1+suffixLength {
		t.Fatalf("unexpected code length %d (%s)", len(code), code)
	}
	for _, c := range code[len(JewelryPrefix)+1:] {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("code %s contains character outside alphabet: %c", code, c)
		}
	}
}

func TestNewDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewSessionCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %s", code)
		}
		seen[code] = true
	}
}
