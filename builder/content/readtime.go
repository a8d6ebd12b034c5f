package content

import (
	"fmt"
	"math"
	"unicode"
)

// DefaultWordsPerMinute is the reading speed used for ReadingTime labels.
const DefaultWordsPerMinute = 200

// CountWords counts whitespace separated words. Han, Hiragana, Katakana and
// Hangul runes count as one word each since those scripts don't separate
// words with spaces. Tokens without a letter or digit (stray punctuation,
// markup like "---") are ignored.
func CountWords(text string) int {
	count := 0
	inWord, hasAlnum := false, false

	flush := func() {
		if inWord && hasAlnum {
			count++
		}
		inWord, hasAlnum = false, false
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush()
			count++
		case unicode.IsSpace(r):
			flush()
		default:
			inWord = true
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				hasAlnum = true
			}
		}
	}
	flush()
	return count
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// ReadingMinutes rounds up, never returning less than one minute.
func ReadingMinutes(words, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ReadingTimeLabel renders the human readable estimate, e.g. "3 min read".
func ReadingTimeLabel(minutes int) string {
	return fmt.Sprintf("%d min read", minutes)
}
