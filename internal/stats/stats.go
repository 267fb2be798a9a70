// package stats provides the static listening statistics shown on the dashboard
package stats

import (
	"fmt"
	"slices"

	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/shared"
)

var topTracks = []models.TopTrack{
	{Name: "Blinding Lights", Artist: "The Weeknd", Plays: 247, Duration: "3:20"},
	{Name: "Watermelon Sugar", Artist: "Harry Styles", Plays: 189, Duration: "2:54"},
	{Name: "Levitating", Artist: "Dua Lipa", Plays: 156, Duration: "3:23"},
	{Name: "Good 4 U", Artist: "Olivia Rodrigo", Plays: 134, Duration: "2:58"},
	{Name: "Stay", Artist: "The Kid LAROI & Justin Bieber", Plays: 128, Duration: "2:21"},
}

var topArtists = []models.TopArtist{
	{Name: "The Weeknd", Plays: 1247, Genres: []string{"Pop", "R&B"}},
	{Name: "Dua Lipa", Plays: 892, Genres: []string{"Pop", "Dance"}},
	{Name: "Harry Styles", Plays: 756, Genres: []string{"Pop", "Rock"}},
	{Name: "Olivia Rodrigo", Plays: 634, Genres: []string{"Pop", "Alternative"}},
	{Name: "Billie Eilish", Plays: 589, Genres: []string{"Alternative", "Pop"}},
}

var genres = []models.GenreShare{
	{Name: "Pop", Percentage: 45},
	{Name: "R&B", Percentage: 23},
	{Name: "Alternative", Percentage: 18},
	{Name: "Rock", Percentage: 14},
}

var overview = models.Overview{
	TotalMinutes:     12847,
	TotalTracks:      1456,
	TopGenre:         "Pop",
	AvgSessionLength: "23 min",
}

// Sample returns a copy of the mock dataset without a platform.
func Sample() models.Dashboard {
	artists := make([]models.TopArtist, len(topArtists))
	for i, a := range topArtists {
		a.Genres = slices.Clone(a.Genres)
		artists[i] = a
	}

	return models.Dashboard{
		Overview:   overview,
		TopTracks:  slices.Clone(topTracks),
		TopArtists: artists,
		Genres:     slices.Clone(genres),
	}
}

// ForUser returns the dashboard for a signed-in user, tagged with their platform.
func ForUser(user *models.User) (models.Dashboard, error) {
	if user == nil {
		return models.Dashboard{}, shared.ErrNotAuthenticated
	}

	d := Sample()
	d.Platform = user.Platform()
	return d, nil
}

// FormatMinutes renders a minute count as "Xh Ym".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Section names one of the dashboard's lists.
type Section string

const (
	SectionTracks  Section = "tracks"
	SectionArtists Section = "artists"
	SectionGenres  Section = "genres"
)

// Sections lists the dashboard tabs in display order.
var Sections = []Section{SectionTracks, SectionArtists, SectionGenres}

// ParseSection converts a flag value to a [Section]. Empty input selects [SectionTracks].
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case "":
		return SectionTracks, nil
	case SectionTracks, SectionArtists, SectionGenres:
		return Section(s), nil
	default:
		return "", fmt.Errorf("%w: section %q (expected tracks, artists or genres)", shared.ErrInvalidArgument, s)
	}
}

// Title returns the tab label of the section.
func (s Section) Title() string {
	switch s {
	case SectionArtists:
		return "Top Artists"
	case SectionGenres:
		return "Genres"
	default:
		return "Top Tracks"
	}
}
