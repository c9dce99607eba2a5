package cli

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/stigoleg/autoclick/internal/clicker"
)

func (a *app) newClickCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "click",
		Short: "Click repeatedly without the TUI",
		Example: `  autoclick click -i 250 -n 100
  autoclick click --random-delay 500-1500 --random-range 5 --humanize 0.2
  autoclick click --x 800 --y 600 --style double --until 17:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runHeadless(cmd, clicker.ModeSingle, quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the summary")
	return cmd
}

func (a *app) newSequenceCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Play the profile's recorded sequence",
		Example: `  autoclick sequence --repeat 5 --interval 2s
  autoclick sequence -p farm.yaml --humanize 0.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runHeadless(cmd, clicker.ModeSequence, quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the summary")
	return cmd
}

// runHeadless starts a run and prints its events until it stops. An
// interrupt cancels the run, which still ends with a summary.
func (a *app) runHeadless(cmd *cobra.Command, mode clicker.Mode, quiet bool) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals()...)
	defer stop()

	s, err := a.openSession(ctx, cmd, "")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	events, unsubscribe := s.ctl.Events(16)
	defer unsubscribe()

	if mode == clicker.ModeSequence {
		err = s.ctl.StartSequence(s.settings)
	} else {
		err = s.ctl.StartSingle(s.settings)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interrupted := ctx.Done()
	for {
		select {
		case <-interrupted:
			s.ctl.Stop()
			interrupted = nil
		case ev := <-events:
			if ev.Kind == clicker.EventStopped {
				printSummary(out, ev, s.stats.Snapshot())
				return ev.Err
			}
			if !quiet {
				printEvent(out, ev)
			}
		}
	}
}

func printEvent(w io.Writer, ev clicker.Event) {
	switch ev.Kind {
	case clicker.EventStarted:
		fmt.Fprintf(w, "started %s run %s\n", ev.Mode, ev.RunID)
	case clicker.EventProgress:
		unit := "click"
		if ev.Mode == clicker.ModeSequence {
			unit = "pass"
		}
		p := ev.Progress
		if p.Total > 0 {
			fmt.Fprintf(w, "%s %d/%d (%.0f%%)\n", unit, p.Completed, p.Total, p.Percent)
		} else {
			fmt.Fprintf(w, "%s %d\n", unit, p.Completed)
		}
	}
}

func printSummary(w io.Writer, ev clicker.Event, snap clicker.StatsSnapshot) {
	fmt.Fprintf(w, "stopped: %s after %d\n", ev.Reason, ev.Progress.Completed)
	fmt.Fprintf(w, "clicks: %d (%d failed) in %s, %.1f/min\n",
		snap.TotalClicks, snap.FailedClicks, snap.Runtime.Round(time.Millisecond), snap.ClicksPerMinute)
}
