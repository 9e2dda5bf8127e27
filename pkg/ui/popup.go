package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DebugPrint glyph metrics.
const (
	charWidth  = 6
	lineHeight = 16
)

// Paragraph is a heading followed by wrapped body text.
type Paragraph struct {
	Heading string
	Body    string
}

// Popup is a modal text box drawn over a dimmed screen, closed with its button.
type Popup struct {
	Visible    bool
	Paragraphs []Paragraph
	MaxWidth   float64

	close *Button
	// laid out box, recomputed on Draw
	x, y, w, h float64

	BGColor      color.RGBA
	OverlayColor color.RGBA
}

// NewPopup creates a hidden popup.
func NewPopup(maxWidth float64, paragraphs ...Paragraph) *Popup {
	p := &Popup{
		Paragraphs:   paragraphs,
		MaxWidth:     maxWidth,
		BGColor:      color.RGBA{R: 40, G: 40, B: 40, A: 255},
		OverlayColor: color.RGBA{R: 0, G: 0, B: 0, A: 190},
	}
	p.close = NewButton(0, 0, 70, 24, "Close", p.Hide)
	return p
}

func (p *Popup) Show() { p.Visible = true }
func (p *Popup) Hide() { p.Visible = false }

// Update handles the close button. It does nothing while hidden.
func (p *Popup) Update() {
	if !p.Visible {
		return
	}
	p.close.Update()
}

// Draw renders the popup centered on screen.
func (p *Popup) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	vector.FillRect(screen, 0, 0, float32(sw), float32(sh), p.OverlayColor, false)

	w := p.MaxWidth
	if w > sw*0.8 {
		w = sw * 0.8
	}
	cols := int(w-40) / charWidth
	var lines []string
	for _, par := range p.Paragraphs {
		lines = append(lines, strings.ToUpper(par.Heading))
		lines = append(lines, WrapText(par.Body, cols)...)
		lines = append(lines, "")
	}
	h := float64(len(lines)*lineHeight) + 60

	p.w, p.h = w, h
	p.x, p.y = (sw-w)/2, (sh-h)/2
	vector.FillRect(screen, float32(p.x), float32(p.y), float32(w), float32(h), p.BGColor, false)
	vector.StrokeRect(screen, float32(p.x), float32(p.y), float32(w), float32(h), 2,
		color.RGBA{R: 100, G: 100, B: 110, A: 255}, true)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(p.x+20), int(p.y+20)+i*lineHeight)
	}

	p.close.X = p.x + (w-p.close.Width)/2
	p.close.Y = p.y + h - p.close.Height - 12
	p.close.Draw(screen)
}

// WrapText splits s into lines of at most cols runes, breaking on spaces.
// Words longer than cols get a line of their own.
func WrapText(s string, cols int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if cols < 1 {
		return words
	}
	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	for _, word := range words {
		wl := len([]rune(word))
		if n > 0 && n+1+wl > cols {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(word)
		n += wl
	}
	return append(lines, cur.String())
}
