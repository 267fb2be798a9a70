package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/tunestats/internal/shared"
)

func TestParsePlatform(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		want    Platform
		wantErr bool
	}{
		{name: "spotify", input: "spotify", want: Spotify},
		{name: "apple", input: "apple", want: Apple},
		{name: "mixed case and spaces", input: "  Apple ", want: Apple},
		{name: "unknown", input: "tidal", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePlatform(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParsePlatform() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidPlatform) {
					t.Errorf("expected ErrInvalidPlatform, got %v", err)
				}
				return
			}
			if got != tc.want {
				t.Errorf("ParsePlatform() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPlatform(t *testing.T) {
	if Spotify.Toggle() != Apple || Apple.Toggle() != Spotify {
		t.Error("Toggle() should swap spotify and apple")
	}
	if Apple.Label() != "Apple Music" {
		t.Errorf("expected Apple Music label, got %s", Apple.Label())
	}
}

func TestUser(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		user := NewUser(0, Apple, "Ada", "")
		if err := user.Validate(); err == nil {
			t.Error("expected error for missing id")
		}

		user.SetID("u1")
		if err := user.Validate(); err != nil {
			t.Errorf("expected valid user, got %v", err)
		}

		user.SetAvatar("not a uri")
		if err := user.Validate(); err == nil {
			t.Error("expected error for relative avatar")
		}
	})

	t.Run("Initial", func(t *testing.T) {
		if got := NewUser(0, Spotify, "ada", "").Initial(); got != "A" {
			t.Errorf("Initial() = %s, want A", got)
		}
		if got := NewUser(0, Spotify, "", "").Initial(); got != "?" {
			t.Errorf("Initial() = %s, want ?", got)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		user := NewUser(0, Apple, "Ada", "")
		user.SetID("u1")

		data, err := json.Marshal(user)
		if err != nil {
			t.Fatalf("failed to marshal user: %v", err)
		}
		if string(data) != `{"id":"u1","name":"Ada","platform":"apple"}` {
			t.Errorf("unexpected JSON %s", data)
		}

		var decoded User
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to unmarshal user: %v", err)
		}
		if decoded.ID() != "u1" || decoded.Platform() != Apple {
			t.Errorf("decoded user mismatch: %+v", decoded)
		}
	})
}

func TestSessionState(t *testing.T) {
	t.Run("authentication is derived from user", func(t *testing.T) {
		if NewSessionState(nil, false).IsAuthenticated() {
			t.Error("state without user must not be authenticated")
		}

		user := NewUser(0, Spotify, "Ada", "")
		user.SetID("u1")
		if !NewSessionState(user, false).IsAuthenticated() {
			t.Error("state with user must be authenticated")
		}
	})

	t.Run("snapshot does not alias the user", func(t *testing.T) {
		user := NewUser(0, Spotify, "Ada", "")
		user.SetID("u1")
		state := NewSessionState(user, false)

		user.SetName("Grace")
		if state.User.Name() != "Ada" {
			t.Errorf("snapshot changed with source user: %s", state.User.Name())
		}
	})

	t.Run("Equal", func(t *testing.T) {
		a := NewUser(0, Spotify, "Ada", "")
		a.SetID("u1")
		b := NewUser(0, Apple, "Ada", "")
		b.SetID("u1")

		if !NewSessionState(nil, true).Equal(NewSessionState(nil, true)) {
			t.Error("identical empty states should be equal")
		}
		if NewSessionState(nil, true).Equal(NewSessionState(nil, false)) {
			t.Error("loading flag should differ")
		}
		if NewSessionState(a, false).Equal(NewSessionState(b, false)) {
			t.Error("different platforms should differ")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data, err := json.Marshal(NewSessionState(nil, false))
		if err != nil {
			t.Fatalf("failed to marshal state: %v", err)
		}
		if !strings.Contains(string(data), `"is_authenticated":false`) || !strings.Contains(string(data), `"user":null`) {
			t.Errorf("unexpected JSON %s", data)
		}
	})
}
