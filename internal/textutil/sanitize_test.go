package textutil_test

import (
	"testing"

	"github.com/garbled1/ps-ripper/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ace Combat 04: Shattered Skies", "Ace Combat 04- Shattered Skies"},
		{"  WILD_ARMS  ", "WILD_ARMS"},
		{"What?", "What"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPathComponent(t *testing.T) {
	if got := textutil.PathComponent("GRAN TURISMO 2", "UNKNOWN"); got != "GRAN_TURISMO_2" {
		t.Fatalf("unexpected component: %q", got)
	}
	if got := textutil.PathComponent("  ", "UNKNOWN"); got != "UNKNOWN" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
