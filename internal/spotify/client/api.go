package client

import (
	"context"
	"errors"
	"strconv"
)

// MaxSearchLimit is the largest page the search endpoint returns.
const MaxSearchLimit = 50

var errEmptyQuery = errors.New("search query cannot be empty")

// GetCurrentUser returns the profile of the token's owner.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTracks runs a track-only catalog search. Limit is clamped to
// MaxSearchLimit; zero leaves the server default.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) (*SearchTracks, error) {
	if query == "" {
		return nil, errEmptyQuery
	}
	params := map[string]string{
		"q":    query,
		"type": "track",
	}
	switch {
	case limit > MaxSearchLimit:
		params["limit"] = strconv.Itoa(MaxSearchLimit)
	case limit > 0:
		params["limit"] = strconv.Itoa(limit)
	}

	var resp SearchResponse
	if err := c.Get(ctx, BuildURL("/search", params), &resp); err != nil {
		return nil, err
	}
	if resp.Tracks == nil {
		return &SearchTracks{}, nil
	}
	return resp.Tracks, nil
}
