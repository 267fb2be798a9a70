package models

// TopTrack is a frequently played track.
type TopTrack struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Plays    int    `json:"plays"`
	Duration string `json:"duration"` // m:ss
}

// TopArtist is a frequently played artist.
type TopArtist struct {
	Name   string   `json:"name"`
	Plays  int      `json:"plays"`
	Genres []string `json:"genres"`
}

// GenreShare is a genre's share of listening, in percent.
type GenreShare struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// Overview holds the headline numbers of the dashboard.
type Overview struct {
	TotalMinutes     int    `json:"total_minutes"`
	TotalTracks      int    `json:"total_tracks"`
	TopGenre         string `json:"top_genre"`
	AvgSessionLength string `json:"avg_session_length"`
}

// Dashboard is the full set of listening statistics shown to a signed-in user.
type Dashboard struct {
	Platform   Platform     `json:"platform"`
	Overview   Overview     `json:"overview"`
	TopTracks  []TopTrack   `json:"top_tracks"`
	TopArtists []TopArtist  `json:"top_artists"`
	Genres     []GenreShare `json:"genres"`
}
