package cli

import (
	"errors"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stigoleg/autoclick/internal/ui"
)

func (a *app) runTUI(cmd *cobra.Command, _ []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals()...)
	defer stop()

	s, err := a.openSession(ctx, cmd, defaultTUILog)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	m := ui.New(s.ctl, s.settings, s.stats)
	m.Logger = s.logger
	m.SetVersion(a.version)
	defer m.Close()

	_, err = ui.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		s.logger.Info("cli: interrupted")
		return nil
	}
	return err
}
