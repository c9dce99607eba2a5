package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate",
		Short: "Print the size and expected duration of the profile's sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, path, err := a.profile(cmd)
			if err != nil {
				return err
			}
			s, err := p.Settings()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.Sequence.Len() == 0 {
				fmt.Fprintf(out, "%s has no recorded sequence\n", path)
				return nil
			}
			b := s.Sequence.Bounds()
			fmt.Fprintf(out, "actions:  %d\n", s.Sequence.Len())
			fmt.Fprintf(out, "bounds:   (%d,%d)-(%d,%d)\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
			fmt.Fprintf(out, "passes:   %d\n", s.SequenceRepeat)
			fmt.Fprintf(out, "duration: %s\n", s.Sequence.EstimatedDuration(s.SequenceRepeat, s.IntervalMs).Round(time.Millisecond))
			return nil
		},
	}
}
