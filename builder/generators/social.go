package generators

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode"

	"github.com/chai2010/webp"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	socialCardWidth  = 1200
	socialCardHeight = 630

	marginX       = 80.0
	headerY       = 90.0
	titleStartY   = 200.0
	titleFontSize = 72.0
	descFontSize  = 36.0
	brandFontSize = 28.0
	dateFontSize  = 24.0
	maxTitleLines = 3
)

var (
	cardTop    = color.RGBA{0xfa, 0xf8, 0xf5, 0xff}
	cardBottom = color.RGBA{0xe8, 0xee, 0xf7, 0xff}
	cardText   = color.RGBA{0x1f, 0x23, 0x28, 0xff}
	cardMuted  = color.RGBA{0x5a, 0x63, 0x6e, 0xff}
	cardAccent = color.RGBA{0x2f, 0x6f, 0xeb, 0xff}
)

// Card is the text drawn on a post's Open Graph image.
type Card struct {
	SiteTitle   string
	Title       string
	Description string
	Date        string
	Category    string
}

// CardRenderer draws social cards. It is safe for concurrent use; each
// call builds its own font faces.
type CardRenderer struct {
	bold    *truetype.Font
	medium  *truetype.Font
	regular *truetype.Font
}

// NewCardRenderer parses the fonts used on cards. A non-empty custom font
// (TTF bytes) replaces all three Go fonts, which is how CJK titles get glyphs.
func NewCardRenderer(custom []byte) (*CardRenderer, error) {
	if len(custom) > 0 {
		f, err := truetype.Parse(custom)
		if err != nil {
			return nil, fmt.Errorf("failed to parse card font: %w", err)
		}
		return &CardRenderer{bold: f, medium: f, regular: f}, nil
	}

	r := &CardRenderer{}
	for _, item := range []struct {
		dst  **truetype.Font
		data []byte
	}{
		{&r.bold, gobold.TTF},
		{&r.medium, gomedium.TTF},
		{&r.regular, goregular.TTF},
	} {
		f, err := truetype.Parse(item.data)
		if err != nil {
			return nil, err
		}
		*item.dst = f
	}
	return r, nil
}

// WebP renders card as a 1200x630 lossy WebP image.
func (r *CardRenderer) WebP(card Card) ([]byte, error) {
	img := r.Image(card)
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode social card: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *CardRenderer) Image(card Card) image.Image {
	dc := gg.NewContext(socialCardWidth, socialCardHeight)

	drawGradient(dc, cardTop, cardBottom)
	drawDotPattern(dc)

	dc.SetColor(cardAccent)
	dc.DrawRectangle(0, 0, socialCardWidth, 8)
	dc.Fill()

	maxWidth := float64(socialCardWidth) - marginX*2

	dc.SetFontFace(face(r.bold, brandFontSize))
	dc.SetColor(cardText)
	dc.DrawString(card.SiteTitle, marginX, headerY)

	if card.Date != "" {
		dc.SetFontFace(face(r.medium, dateFontSize))
		dc.SetColor(cardMuted)
		w, _ := dc.MeasureString(card.Date)
		dc.DrawString(card.Date, float64(socialCardWidth)-marginX-w, headerY)
	}

	dc.SetFontFace(face(r.bold, titleFontSize))
	dc.SetColor(cardText)
	lines := wrapText(dc, card.Title, maxWidth, maxTitleLines)
	y := titleStartY
	for _, line := range lines {
		dc.DrawString(line, marginX, y)
		y += titleFontSize * 1.15
	}

	if card.Description != "" {
		dc.SetFontFace(face(r.regular, descFontSize))
		dc.SetColor(cardMuted)
		for _, line := range wrapText(dc, card.Description, maxWidth, 2) {
			y += 10
			dc.DrawString(line, marginX, y)
			y += descFontSize * 1.3
		}
	}

	if card.Category != "" {
		dc.SetFontFace(face(r.medium, dateFontSize))
		dc.SetColor(cardAccent)
		dc.DrawString("# "+card.Category, marginX, float64(socialCardHeight)-60)
	}

	return dc.Image()
}

func face(f *truetype.Font, points float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: points, DPI: 72})
}

// drawGradient fills the card top to bottom between two colors.
func drawGradient(dc *gg.Context, top, bottom color.RGBA) {
	for y := 0; y < socialCardHeight; y++ {
		t := float64(y) / float64(socialCardHeight-1)
		dc.SetRGBA255(
			lerp(top.R, bottom.R, t),
			lerp(top.G, bottom.G, t),
			lerp(top.B, bottom.B, t),
			255,
		)
		dc.DrawRectangle(0, float64(y), socialCardWidth, 1)
		dc.Fill()
	}
}

func lerp(a, b uint8, t float64) int {
	return int(float64(a)*(1-t) + float64(b)*t)
}

func drawDotPattern(dc *gg.Context) {
	dc.SetRGBA255(120, 100, 80, 40)
	const spacing = 32
	for x := spacing / 2; x < socialCardWidth; x += spacing {
		for y := spacing / 2; y < socialCardHeight; y += spacing {
			dc.DrawCircle(float64(x), float64(y), 2)
			dc.Fill()
		}
	}
}

// wrapText breaks s into at most maxLines lines no wider than width. Words
// are split on spaces; CJK runes may break anywhere. The last line gets an
// ellipsis when text is cut.
func wrapText(dc *gg.Context, s string, width float64, maxLines int) []string {
	var lines []string
	var line strings.Builder

	fits := func(candidate string) bool {
		w, _ := dc.MeasureString(candidate)
		return w <= width
	}
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, strings.TrimSpace(line.String()))
			line.Reset()
		}
	}

	for _, tok := range tokens(s) {
		if tok == " " && line.Len() == 0 {
			continue
		}
		if fits(line.String() + tok) {
			line.WriteString(tok)
			continue
		}
		flush()
		if tok != " " {
			line.WriteString(tok)
		}
	}
	flush()

	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	for len(last) > 0 && !fits(string(last)+"…") {
		last = last[:len(last)-1]
	}
	lines[maxLines-1] = string(last) + "…"
	return lines
}

// tokens splits s into words, single spaces and individual CJK runes.
func tokens(s string) []string {
	var out []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			out = append(out, word.String())
			word.Reset()
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
			out = append(out, " ")
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
			flush()
			out = append(out, string(r))
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return out
}
