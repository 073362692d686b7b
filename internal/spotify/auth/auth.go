// Package auth owns the stored Spotify OAuth token. Token acquisition happens
// outside cue; this package loads the stored token, refreshes it when it
// expires and writes refreshed tokens back to disk.
package auth

import "golang.org/x/oauth2"

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// DefaultScopes are the Spotify scopes a stored token needs for cue.
var DefaultScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-private",
	"playlist-modify-private",
	"playlist-read-private",
}

// NewConfig returns the OAuth configuration used to refresh tokens. Tokens
// issued through PKCE carry no client secret, so credentials go in the body.
func NewConfig(clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   DefaultScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   SpotifyAuthURL,
			TokenURL:  SpotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
