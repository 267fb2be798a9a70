package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/stats"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = artistItem{}
	_ list.Item = genreItem{}
)

// trackItem wraps [models.TopTrack] to implement [list.Item].
type trackItem struct {
	rank  int
	track models.TopTrack
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.track.Name) }
func (i trackItem) Description() string {
	return fmt.Sprintf("%s • %d plays • %s", i.track.Artist, i.track.Plays, i.track.Duration)
}

// artistItem wraps [models.TopArtist] to implement [list.Item].
type artistItem struct {
	rank   int
	artist models.TopArtist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.artist.Name) }
func (i artistItem) Description() string {
	return fmt.Sprintf("%d plays • %s", i.artist.Plays, strings.Join(i.artist.Genres, ", "))
}

// genreItem wraps [models.GenreShare] to implement [list.Item].
type genreItem struct {
	genre models.GenreShare
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string       { return i.genre.Name }
func (i genreItem) Description() string {
	return fmt.Sprintf("%s %d%%", bar(i.genre.Percentage, 20), i.genre.Percentage)
}

// bar draws a horizontal percentage bar width cells wide.
func bar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// sectionItems converts one dashboard section to list items.
func sectionItems(d models.Dashboard, section stats.Section) []list.Item {
	var items []list.Item
	switch section {
	case stats.SectionTracks:
		for i, t := range d.TopTracks {
			items = append(items, trackItem{rank: i + 1, track: t})
		}
	case stats.SectionArtists:
		for i, a := range d.TopArtists {
			items = append(items, artistItem{rank: i + 1, artist: a})
		}
	case stats.SectionGenres:
		for _, g := range d.Genres {
			items = append(items, genreItem{genre: g})
		}
	}
	return items
}

func newSectionList(d models.Dashboard, section stats.Section, width, height int) list.Model {
	l := list.New(sectionItems(d, section), list.NewDefaultDelegate(), width, height)
	l.Title = section.Title()
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}
