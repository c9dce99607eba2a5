//go:build linux

package linux

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/stigoleg/autoclick/internal/util"
)

// hasCommand checks if a command is available in the system PATH.
func hasCommand(name string) bool {
	return util.HasCommand(name)
}

// runner executes an external command and returns its trimmed combined output.
type runner func(ctx context.Context, name string, args ...string) (string, error)

// runVerbose executes a command and returns the combined output (stdout+stderr) and any error.
func runVerbose(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return strings.TrimSpace(buf.String()), err
}
