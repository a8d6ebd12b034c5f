package content

import (
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader string
		wantBody   string
		wantHad    bool
		wantErr    error
	}{
		{
			name:       "standard",
			input:      "---\ntitle: x\n---\nbody",
			wantHeader: "title: x\n",
			wantBody:   "body",
			wantHad:    true,
		},
		{
			name:     "no front matter",
			input:    "# Hello\n",
			wantBody: "# Hello\n",
		},
		{
			name:     "empty header",
			input:    "---\n---\nbody",
			wantBody: "body",
			wantHad:  true,
		},
		{
			name:       "crlf",
			input:      "---\r\ntitle: x\r\n---\r\nbody",
			wantHeader: "title: x\r\n",
			wantBody:   "body",
			wantHad:    true,
		},
		{
			name:       "closing delimiter at eof",
			input:      "---\ntitle: x\n---",
			wantHeader: "title: x\n",
			wantHad:    true,
		},
		{
			name:       "byte order mark",
			input:      "\ufeff---\ntitle: x\n---\nbody",
			wantHeader: "title: x\n",
			wantBody:   "body",
			wantHad:    true,
		},
		{
			name:    "missing closing delimiter",
			input:   "---\ntitle: x\nbody",
			wantErr: ErrMissingClosingDelimiter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, had, err := Split([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if had != tt.wantHad {
				t.Errorf("had = %v, want %v", had, tt.wantHad)
			}
			if string(header) != tt.wantHeader {
				t.Errorf("header = %q, want %q", header, tt.wantHeader)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParseFrontMatter_UnquotedValues(t *testing.T) {
	header := []byte("title: 2024\npublishedAt: 2024-01-15\ntags: [go, 1.22]\nfeatured: true\n")
	fm, err := parseFrontMatter(header)
	if err != nil {
		t.Fatalf("parseFrontMatter() failed: %v", err)
	}
	if fm.Title != "2024" {
		t.Errorf("Title = %q, want %q", fm.Title, "2024")
	}
	if fm.PublishedAt != "2024-01-15" {
		t.Errorf("PublishedAt = %q, want %q", fm.PublishedAt, "2024-01-15")
	}
	if len(fm.Tags) != 2 || fm.Tags[1] != "1.22" {
		t.Errorf("Tags = %v, want [go 1.22]", fm.Tags)
	}
	if fm.Featured == nil || !*fm.Featured {
		t.Error("Featured should be set to true")
	}
}

func TestParseFrontMatter_Invalid(t *testing.T) {
	if _, err := parseFrontMatter([]byte("title: [unclosed\n")); err == nil {
		t.Error("parseFrontMatter() should fail on invalid YAML")
	}
}
