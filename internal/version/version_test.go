package version

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		version, rev string
		want         string
	}{
		{"dev", "", "folio dev go1.22 linux/amd64"},
		{"v1.0.0", "abc123", "folio v1.0.0 (abc123) go1.22 linux/amd64"},
	}
	for _, tt := range tests {
		if got := format(tt.version, tt.rev, "go1.22", "linux/amd64"); got != tt.want {
			t.Errorf("format(%q, %q) = %q, want %q", tt.version, tt.rev, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if s := String(); !strings.HasPrefix(s, "folio "+Version) {
		t.Errorf("String() = %q", s)
	}
}
