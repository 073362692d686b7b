package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tessro/cue/internal/engine"
	"github.com/tessro/cue/internal/logging"
	"github.com/tessro/cue/internal/mirror"
	"github.com/tessro/cue/internal/playback"
	"github.com/tessro/cue/internal/session"
	"github.com/tessro/cue/internal/spotify/gateway"
)

// teardownTimeout bounds the blocking cleanup after a shutdown signal.
const teardownTimeout = 10 * time.Second

// liveSession is one running smart queue: poller, engine and the optional
// mirror playlist.
type liveSession struct {
	logger *log.Logger
	gw     *gateway.Gateway
	poller *playback.Poller
	engine *engine.Engine
	mirror *mirror.Manager
	store  *session.Store
}

// signalContext returns a context cancelled on SIGINT, SIGTERM or SIGHUP.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
}

func engineConfig() engine.Config {
	return engine.Config{
		NearEndThreshold: cfg.Engine.NearEndThresholdDuration(),
		RetryBackoff:     cfg.Engine.RetryBackoffDuration(),
		GuardDelay:       cfg.Engine.GuardDelayDuration(),
		ImportOnStart:    cfg.Engine.ImportQueue,
	}
}

func openSession(ctx context.Context, logger *log.Logger) (*liveSession, error) {
	gw, err := newGateway(ctx, logger)
	if err != nil {
		return nil, err
	}

	s := &liveSession{logger: logger, gw: gw}
	opts := []engine.Option{
		engine.WithConfig(engineConfig()),
		engine.WithLogger(logging.With(logger, "engine")),
	}
	if cfg.Mirror.Enabled {
		if err := s.startMirror(ctx); err != nil {
			logger.Warn("mirror playlist disabled", "err", err)
		} else {
			opts = append(opts, engine.WithMirror(s.mirror))
		}
	}

	s.engine = engine.New(gw, opts...)
	s.poller = playback.NewPoller(gw, cfg.Engine.PollIntervalDuration(),
		playback.WithLogger(logging.With(logger, "poller")))
	return s, nil
}

func (s *liveSession) startMirror(ctx context.Context) error {
	store, err := session.Open(cfg.Mirror.Database)
	if err != nil {
		return err
	}

	m := mirror.New(s.gw,
		mirror.WithRecorder(store),
		mirror.WithLogger(logging.With(s.logger, "mirror")),
		mirror.WithName(cfg.Mirror.Name),
	)
	if n, err := m.RecoverOrphans(ctx); err != nil {
		s.logger.Warn("could not clear every orphaned mirror playlist", "cleared", n, "err", err)
	} else if n > 0 {
		s.logger.Info("cleared orphaned mirror playlists", "count", n)
	}

	userID, err := s.gw.CurrentUserID(ctx)
	if err != nil {
		_ = store.Close()
		return err
	}
	if _, err := m.CreateFor(ctx, userID); err != nil {
		_ = m.Teardown(ctx)
		_ = store.Close()
		return err
	}

	s.mirror, s.store = m, store
	return nil
}

// run polls and enforces until ctx is done.
func (s *liveSession) run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.poller.Run(ctx)
	}()

	err := s.engine.Run(ctx, s.poller.Snapshots())
	wg.Wait()
	return err
}

// teardown deletes the mirror playlist. It uses its own context because the
// run context is already cancelled by the time it is called.
func (s *liveSession) teardown() {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	if err := s.mirror.Teardown(ctx); err != nil {
		s.logger.Warn("mirror playlist left behind; 'cue cleanup' will remove it", "err", err)
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("could not close session database", "err", err)
	}
}
