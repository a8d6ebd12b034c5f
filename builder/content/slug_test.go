package content

import "testing"

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"Go", "go"},
		{"Machine Learning", "machine-learning"},
		{"Web   Dev", "web-dev"},
		{"人工智能", "人工智能"},
		{"Go 1.22", "Go 1.22"},
		{"C++", "C++"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CategorySlug(tt.name); got != tt.want {
			t.Errorf("CategorySlug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDescribeCategory(t *testing.T) {
	if got := describeCategory("", "Go"); got != "Go相关的技术文章" {
		t.Errorf("default description = %q", got)
	}
	if got := describeCategory("Posts about %s", "Go"); got != "Posts about Go" {
		t.Errorf("custom description = %q", got)
	}
}

func TestValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "人工智能", "v1.2"}
	invalid := []string{"", ".hidden", "../etc/passwd", "a/b", `a\b`, "a..b"}

	for _, s := range valid {
		if !validSlug(s) {
			t.Errorf("validSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if validSlug(s) {
			t.Errorf("validSlug(%q) = true, want false", s)
		}
	}
}
