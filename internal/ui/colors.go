package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tunestats/internal/models"
)

var themes = map[models.Platform]*Palette{
	models.Spotify: NewPalette("#1DB954", "#1ED760", "#FF4D4F", "#FFA500", "#626262"),
	models.Apple:   NewPalette("#FA243C", "#FC3C44", "#FF4D4F", "#FFA500", "#626262"),
}

// paletteFor returns the theme of platform, falling back to Spotify's.
func paletteFor(p models.Platform) *Palette {
	if palette, ok := themes[p]; ok {
		return palette
	}
	return themes[models.Spotify]
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	accent lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	card   lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
}

func NewPalette(primary, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(primary).MarginBottom(1),
		accent: NewStyle(primary),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primary)).
			Padding(0, 1).
			MarginRight(1),
		tab:    NewStyle(h).Padding(0, 1),
		active: NewBold("#FFFFFF").Background(lipgloss.Color(primary)).Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
