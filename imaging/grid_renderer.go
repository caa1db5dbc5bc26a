package imaging

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"wordler/models"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// GridStyle defines the geometry and palette of a result card
type GridStyle struct {
	CellSize     int
	CellGap      int
	Padding      int
	HeaderHeight int
	AvatarSize   int
	Background   string
	Correct      string
	Present      string
	Absent       string
	EmptyCell    string
	Avatar       string
	Text         string
}

// DefaultGridStyle matches the colors of the web client
var DefaultGridStyle = GridStyle{
	CellSize:     40,
	CellGap:      2,
	Padding:      12,
	HeaderHeight: 44,
	AvatarSize:   32,
	Background:   "#1e1f22",
	Correct:      "#00bc7d",
	Present:      "#f0b100",
	Absent:       "#6a7282",
	EmptyCell:    "#3f4147",
	Avatar:       "#5865f2",
	Text:         "#f2f3f5",
}

// GridRenderer draws a guess grid as a PNG card with the author's name
type GridRenderer struct {
	style    GridStyle
	nameFace font.Face
	initFace font.Face
}

// NewGridRenderer parses the embedded Go fonts once
func NewGridRenderer(style GridStyle) (*GridRenderer, error) {
	nameFace, err := loadFont(gomono.TTF, 14)
	if err != nil {
		return nil, fmt.Errorf("failed to load name font: %w", err)
	}
	initFace, err := loadFont(gobold.TTF, float64(style.AvatarSize)/2)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial font: %w", err)
	}
	return &GridRenderer{style: style, nameFace: nameFace, initFace: initFace}, nil
}

// Size returns the card dimensions for a grid of rows guesses
func (r *GridRenderer) Size(rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	s := r.style
	gridWidth := models.WordLength*s.CellSize + (models.WordLength-1)*s.CellGap
	gridHeight := rows*s.CellSize + (rows-1)*s.CellGap
	return gridWidth + 2*s.Padding, s.HeaderHeight + gridHeight + 2*s.Padding
}

// RenderGrid draws one row of cells per guess under a header holding an
// avatar placeholder and authorName. avatarRef is not fetched; the
// placeholder shows the author's initial. An empty grid draws one blank row.
func (r *GridRenderer) RenderGrid(grid models.GuessGrid, authorName, avatarRef string) ([]byte, error) {
	s := r.style
	rows := len(grid)
	width, height := r.Size(rows)

	dc := gg.NewContext(width, height)
	dc.SetHexColor(s.Background)
	dc.DrawRoundedRectangle(0, 0, float64(width), float64(height), 8)
	dc.Fill()

	r.drawHeader(dc, authorName)

	top := float64(s.Padding + s.HeaderHeight)
	if rows == 0 {
		for col := 0; col < models.WordLength; col++ {
			r.drawCell(dc, 0, col, top, s.EmptyCell)
		}
	}
	for row, statuses := range grid {
		for col := 0; col < models.WordLength; col++ {
			color := s.EmptyCell
			if col < len(statuses) {
				color = r.statusColor(statuses[col])
			}
			r.drawCell(dc, row, col, top, color)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode grid image: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *GridRenderer) drawHeader(dc *gg.Context, authorName string) {
	s := r.style
	radius := float64(s.AvatarSize) / 2
	cx := float64(s.Padding) + radius
	cy := float64(s.Padding) + float64(s.HeaderHeight)/2 - 2

	dc.SetHexColor(s.Avatar)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()

	dc.SetHexColor(s.Text)
	dc.SetFontFace(r.initFace)
	dc.DrawStringAnchored(initial(authorName), cx, cy, 0.5, 0.35)

	dc.SetFontFace(r.nameFace)
	nameX := cx + radius + 8
	maxWidth := float64(dc.Width()) - nameX - float64(s.Padding)
	dc.DrawStringAnchored(truncate(dc, authorName, maxWidth), nameX, cy, 0, 0.35)
}

func (r *GridRenderer) drawCell(dc *gg.Context, row, col int, top float64, color string) {
	s := r.style
	x := float64(s.Padding + col*(s.CellSize+s.CellGap))
	y := top + float64(row*(s.CellSize+s.CellGap))

	dc.SetHexColor(color)
	dc.DrawRoundedRectangle(x, y, float64(s.CellSize), float64(s.CellSize), 4)
	dc.Fill()
}

func (r *GridRenderer) statusColor(status models.LetterStatus) string {
	switch status {
	case models.LetterCorrect:
		return r.style.Correct
	case models.LetterPresent:
		return r.style.Present
	default:
		return r.style.Absent
	}
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	first, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(first))
}

// truncate shortens text with an ellipsis until it fits maxWidth
func truncate(dc *gg.Context, text string, maxWidth float64) string {
	if w, _ := dc.MeasureString(text); w <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return ""
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
