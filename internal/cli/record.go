package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stigoleg/autoclick/internal/clicker"
	"github.com/stigoleg/autoclick/internal/config"
)

func (a *app) newRecordCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a click sequence from standard input",
		Long: `record reads one click per line in the form

  X Y [BUTTON] [TIME_MS]

and stores the result as the profile's sequence. BUTTON defaults to left.
TIME_MS is a timestamp in milliseconds used to compute the pause before the
next click; without it the time the line was read is used. Lines starting
with # are ignored. Input ends at EOF.`,
		Example: `  xinput-clicks | autoclick record -o farm.yaml
  printf '10 20\n30 40 right\n' | autoclick record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRecord(cmd, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "profile to write (default: --profile or the user profile)")
	return cmd
}

func (a *app) runRecord(cmd *cobra.Command, output string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals()...)
	defer stop()

	path := a.flags.ProfilePath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	p, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if err := a.flags.Apply(cmd.Flags(), p, time.Now()); err != nil {
		return err
	}
	if output != "" {
		path = output
	}

	rec := clicker.NewRecorder(p.HoldMs)
	obs := make(chan clicker.Observation)
	var scanErr error
	go func() {
		defer close(obs)
		scanErr = scanObservations(ctx, cmd.InOrStdin(), obs, time.Now)
	}()
	if err := rec.Consume(ctx, obs); err != nil {
		return err
	}
	if scanErr != nil {
		return scanErr
	}
	if rec.Len() == 0 {
		return fmt.Errorf("no clicks recorded")
	}

	p.SetSequence(rec.Actions())
	if err := p.Save(path); err != nil {
		return err
	}

	seq := rec.Sequence()
	repeat := max(1, p.SequenceRepeat)
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %d actions to %s (about %s for %d passes)\n",
		seq.Len(), path, seq.EstimatedDuration(repeat, p.IntervalMs).Round(time.Millisecond), repeat)
	return nil
}

// scanObservations parses r line by line and sends each click on out.
func scanObservations(ctx context.Context, r io.Reader, out chan<- clicker.Observation, now func() time.Time) error {
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		obs, err := parseObservation(text, now)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		select {
		case out <- obs:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read clicks: %w", err)
	}
	return nil
}

func parseObservation(text string, now func() time.Time) (clicker.Observation, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 4 {
		return clicker.Observation{}, fmt.Errorf("want X Y [BUTTON] [TIME_MS], got %q", text)
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return clicker.Observation{}, fmt.Errorf("invalid x %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return clicker.Observation{}, fmt.Errorf("invalid y %q", fields[1])
	}
	obs := clicker.Observation{Position: clicker.Point{X: x, Y: y}, Button: clicker.ButtonLeft, At: now()}

	if len(fields) > 2 {
		if obs.Button, err = clicker.ParseButton(fields[2]); err != nil {
			return clicker.Observation{}, err
		}
	}
	if len(fields) > 3 {
		ms, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return clicker.Observation{}, fmt.Errorf("invalid time %q", fields[3])
		}
		obs.At = time.UnixMilli(ms)
	}
	return obs, nil
}
