package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tunestats/internal/shared"
)

// Platform identifies the streaming service a user signed in with.
type Platform string

const (
	Spotify Platform = "spotify"
	Apple   Platform = "apple"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{Spotify, Apple}

// ParsePlatform converts user input ("spotify", "Apple", " apple ") to a [Platform].
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (expected spotify or apple)", shared.ErrInvalidPlatform, s)
	}
	return p, nil
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	return p == Spotify || p == Apple
}

// Label returns the display name of the platform.
func (p Platform) Label() string {
	switch p {
	case Spotify:
		return "Spotify"
	case Apple:
		return "Apple Music"
	default:
		return string(p)
	}
}

// Toggle returns the other platform. Unknown platforms toggle to [Spotify].
func (p Platform) Toggle() Platform {
	if p == Spotify {
		return Apple
	}
	return Spotify
}

func (p Platform) String() string { return string(p) }
