package content

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"latin", "hello world", 2},
		{"punctuation attached", "hello, world!", 2},
		{"markup only tokens", "--- *** ## |", 0},
		{"han", "你好世界", 4},
		{"mixed", "Go 语言 is fun", 5},
		{"kana", "ひらがな", 4},
		{"newlines", "one\ntwo\n\nthree", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestReadingMinutes(t *testing.T) {
	tests := []struct {
		words, wpm, want int
	}{
		{0, 200, 1},
		{1, 200, 1},
		{200, 200, 1},
		{201, 200, 2},
		{450, 200, 3},
		{10, 0, 1},
		{1000, 100, 10},
	}
	for _, tt := range tests {
		if got := ReadingMinutes(tt.words, tt.wpm); got != tt.want {
			t.Errorf("ReadingMinutes(%d, %d) = %d, want %d", tt.words, tt.wpm, got, tt.want)
		}
	}
}

func TestReadingTimeLabel(t *testing.T) {
	if got := ReadingTimeLabel(3); got != "3 min read" {
		t.Errorf("ReadingTimeLabel(3) = %q", got)
	}
}
