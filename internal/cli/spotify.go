package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	cueerrors "github.com/tessro/cue/internal/errors"
	"github.com/tessro/cue/internal/logging"
	"github.com/tessro/cue/internal/spotify/auth"
	"github.com/tessro/cue/internal/spotify/client"
	"github.com/tessro/cue/internal/spotify/gateway"
)

// newLogger builds the command logger. --verbose forces debug level.
func newLogger(w io.Writer) (*log.Logger, io.Closer, error) {
	logCfg := cfg.Log
	if Verbose() {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg, w)
}

func tokenStorage() (*auth.TokenStorage, error) {
	storage, err := auth.NewTokenStorage(cfg.Spotify.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}
	return storage, nil
}

// newGateway wires the stored token, the rate-limited Web API client and the
// playback gateway together.
func newGateway(ctx context.Context, logger *log.Logger) (*gateway.Gateway, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, cueerrors.WithSuggestion(
			fmt.Errorf("%w: spotify.client_id is not set", cueerrors.ErrInvalidConfig),
			"Set it in ~/.cuerc or via CUE_SPOTIFY_CLIENT_ID",
		)
	}

	storage, err := tokenStorage()
	if err != nil {
		return nil, err
	}
	if !storage.Exists() {
		return nil, cueerrors.WithSuggestion(
			cueerrors.ErrUnauthenticated,
			fmt.Sprintf("Store a Spotify OAuth token at %s", storage.Path()),
		)
	}

	tokens := auth.NewTokenSource(ctx, auth.NewConfig(cfg.Spotify.ClientID), storage)
	c := client.New(tokens,
		client.WithRateLimit(cfg.Engine.RateLimit, cfg.Engine.RateBurst),
		client.WithLogger(logging.With(logger, "client")),
	)

	gw := gateway.New(c)
	gw.SetDevice(cfg.Spotify.Device)
	return gw, nil
}

// quickGateway is newGateway for one-shot commands, logging to stderr. The
// returned func closes the log file if one is configured.
func quickGateway(ctx context.Context) (*gateway.Gateway, func(), error) {
	logger, closer, err := newLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	gw, err := newGateway(ctx, logger)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return gw, func() { _ = closer.Close() }, nil
}
