package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
	"github.com/stigoleg/autoclick/internal/config"
	"github.com/stigoleg/autoclick/internal/lifecycle"
	"github.com/stigoleg/autoclick/internal/platform"
)

// session owns everything a clicking command needs. close releases it in
// reverse order of acquisition.
type session struct {
	logger   *zap.Logger
	profile  *config.Profile
	settings clicker.ClickSettings
	stats    *clicker.Statistics
	ctl      *clicker.Controller
	cleanup  *lifecycle.Manager
}

// profile loads the profile and applies explicitly set flags on top.
func (a *app) profile(cmd *cobra.Command) (*config.Profile, string, error) {
	p, path, err := a.flags.LoadProfile()
	if err != nil {
		return nil, "", err
	}
	if err := a.flags.Apply(cmd.Flags(), p, time.Now()); err != nil {
		return nil, "", err
	}
	return p, path, nil
}

func (a *app) logger(cmd *cobra.Command, defaultPath string) (*zap.Logger, func(), error) {
	path := a.flags.LogFile
	if path == "" {
		path = defaultPath
	}
	return newLogger(path, a.flags.LogLevel, cmd.ErrOrStderr())
}

// openSession resolves settings, opens the pointer backend and builds a
// controller around it.
func (a *app) openSession(ctx context.Context, cmd *cobra.Command, defaultLog string) (*session, error) {
	logger, closeLog, err := a.logger(cmd, defaultLog)
	if err != nil {
		return nil, err
	}

	s := &session{
		logger:  logger,
		cleanup: lifecycle.NewManager(lifecycle.DefaultTimeout, logger),
	}
	s.cleanup.RegisterFunc("logger", func() error {
		// Syncing a terminal fails with EINVAL on some systems.
		_ = logger.Sync()
		closeLog()
		return nil
	})

	if err := s.init(ctx, a, cmd); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) init(ctx context.Context, a *app, cmd *cobra.Command) error {
	p, path, err := a.profile(cmd)
	if err != nil {
		return err
	}
	s.profile = p
	s.settings, err = p.Settings()
	if err != nil {
		return err
	}

	backend, err := platform.ParseBackend(p.Backend)
	if err != nil {
		return err
	}
	act, err := platform.Open(ctx, platform.Options{
		Backend:     backend,
		URL:         p.URL,
		ShowBrowser: a.flags.ShowBrowser,
		Logger:      s.logger,
	})
	if err != nil {
		return fmt.Errorf("open %s backend: %w", backend, err)
	}
	s.cleanup.RegisterFunc("actuator", act.Close)

	if release, err := platform.PreventSleep(s.logger); err != nil {
		s.logger.Warn("cli: sleep prevention unavailable", zap.Error(err))
	} else {
		s.cleanup.RegisterFunc("sleep inhibitor", release)
	}

	s.stats = clicker.NewStatistics(nil)
	s.ctl, err = clicker.NewController(clicker.Options{
		Actuator: s.stats.Wrap(act),
		Logger:   s.logger,
	})
	if err != nil {
		return err
	}
	s.cleanup.RegisterFunc("controller", func() error {
		// A failed run is reported by the command that started it.
		_ = s.ctl.Close()
		return nil
	})

	s.logger.Info("cli: session ready",
		zap.String("profile", path),
		zap.String("backend", string(backend)),
		zap.Int("interval_ms", s.settings.IntervalMs),
		zap.Int("sequence_actions", s.settings.Sequence.Len()),
	)
	return nil
}

func (s *session) close() error {
	return errors.Join(s.cleanup.Execute()...)
}
