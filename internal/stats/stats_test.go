package stats

import (
	"errors"
	"testing"

	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/shared"
)

func TestForUser(t *testing.T) {
	t.Run("tags the platform", func(t *testing.T) {
		user := models.NewUser(0, models.Apple, "Ada", "")
		user.SetID("u1")

		d, err := ForUser(user)
		if err != nil {
			t.Fatalf("ForUser() error = %v", err)
		}
		if d.Platform != models.Apple {
			t.Errorf("expected apple, got %s", d.Platform)
		}
		if len(d.TopTracks) != 5 || len(d.TopArtists) != 5 || len(d.Genres) != 4 {
			t.Errorf("unexpected dataset sizes %d/%d/%d", len(d.TopTracks), len(d.TopArtists), len(d.Genres))
		}
		if d.TopTracks[0].Name != "Blinding Lights" || d.TopTracks[0].Plays != 247 {
			t.Errorf("unexpected first track %+v", d.TopTracks[0])
		}
		if d.Overview.TotalMinutes != 12847 || d.Overview.TopGenre != "Pop" {
			t.Errorf("unexpected overview %+v", d.Overview)
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		if _, err := ForUser(nil); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("copies do not share state", func(t *testing.T) {
		a := Sample()
		a.TopTracks[0].Plays = 0
		a.TopArtists[0].Genres[0] = "Polka"

		b := Sample()
		if b.TopTracks[0].Plays != 247 || b.TopArtists[0].Genres[0] != "Pop" {
			t.Error("mutating one dashboard changed another")
		}
	})

	t.Run("genre shares add up", func(t *testing.T) {
		total := 0
		for _, g := range Sample().Genres {
			total += g.Percentage
		}
		if total != 100 {
			t.Errorf("expected 100%%, got %d%%", total)
		}
	})
}

func TestFormatMinutes(t *testing.T) {
	tt := []struct {
		minutes int
		want    string
	}{
		{12847, "214h 7m"},
		{60, "1h 0m"},
		{59, "0h 59m"},
		{0, "0h 0m"},
		{-5, "0h 0m"},
	}

	for _, tc := range tt {
		if got := FormatMinutes(tc.minutes); got != tc.want {
			t.Errorf("FormatMinutes(%d) = %s, want %s", tc.minutes, got, tc.want)
		}
	}
}

func TestParseSection(t *testing.T) {
	tt := []struct {
		input   string
		want    Section
		wantErr bool
	}{
		{input: "", want: SectionTracks},
		{input: "tracks", want: SectionTracks},
		{input: "artists", want: SectionArtists},
		{input: "genres", want: SectionGenres},
		{input: "albums", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseSection(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSection() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseSection() = %s, want %s", got, tc.want)
			}
		})
	}

	if SectionGenres.Title() != "Genres" {
		t.Errorf("unexpected title %s", SectionGenres.Title())
	}
}
