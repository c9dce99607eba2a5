//go:build linux

package linux

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/autoclick/internal/clicker"
)

type recordedCall struct {
	name string
	args []string
}

func fakeRunner(out string, err error, calls *[]recordedCall) runner {
	return func(_ context.Context, name string, args ...string) (string, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return out, err
	}
}

func TestClickArgs(t *testing.T) {
	tests := []struct {
		name   string
		button clicker.Button
		want   []string
	}{
		{"left", clicker.ButtonLeft, []string{"mousemove", "--", "10", "20", "mousedown", "1", "sleep", "0.050", "mouseup", "1"}},
		{"middle", clicker.ButtonMiddle, []string{"mousemove", "--", "10", "20", "mousedown", "2", "sleep", "0.050", "mouseup", "2"}},
		{"right", clicker.ButtonRight, []string{"mousemove", "--", "10", "20", "mousedown", "3", "sleep", "0.050", "mouseup", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clickArgs(tt.button, clicker.Point{X: 10, Y: 20}, 50*time.Millisecond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := clickArgs(clicker.Button(7), clicker.Point{}, time.Millisecond)
	assert.Error(t, err)
}

func TestClickArgsNegativeCoordinates(t *testing.T) {
	got, err := clickArgs(clicker.ButtonLeft, clicker.Point{X: -1920, Y: -5}, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []string{"mousemove", "--", "-1920", "-5", "mousedown", "1", "sleep", "0.010", "mouseup", "1"}, got)
}

func TestXdotoolClick(t *testing.T) {
	var calls []recordedCall
	x := newXdotool(fakeRunner("", nil, &calls), nil)

	require.NoError(t, x.Click(context.Background(), clicker.ButtonRight, clicker.Point{X: 1, Y: 2}, 120*time.Millisecond))
	require.Len(t, calls, 1)
	assert.Equal(t, "xdotool", calls[0].name)
	assert.Contains(t, calls[0].args, "0.120")

	failing := newXdotool(fakeRunner("Can't open display", errors.New("exit status 1"), &calls), nil)
	err := failing.Click(context.Background(), clicker.ButtonLeft, clicker.Point{}, time.Millisecond)
	assert.ErrorContains(t, err, "xdotool click")
}

func TestXdotoolCurrentPosition(t *testing.T) {
	var calls []recordedCall
	x := newXdotool(fakeRunner("X=640\nY=480\nSCREEN=0\nWINDOW=123", nil, &calls), nil)

	p, err := x.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, clicker.Point{X: 640, Y: 480}, p)
	assert.Equal(t, []string{"getmouselocation", "--shell"}, calls[0].args)
	assert.NoError(t, x.Close())
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    clicker.Point
		wantErr bool
	}{
		{"shell output", "X=1\nY=2\nSCREEN=0", clicker.Point{X: 1, Y: 2}, false},
		{"padded", "  X=3 \n Y=4", clicker.Point{X: 3, Y: 4}, false},
		{"missing y", "X=1", clicker.Point{}, true},
		{"garbage", "X=abc\nY=2", clicker.Point{}, true},
		{"empty", "", clicker.Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLocation(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"wayland display", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, DisplayServerWayland},
		{"wayland session", map[string]string{"XDG_SESSION_TYPE": "wayland", "DISPLAY": ":0"}, DisplayServerWayland},
		{"x11 display", map[string]string{"DISPLAY": ":0"}, DisplayServerX11},
		{"x11 session", map[string]string{"XDG_SESSION_TYPE": "x11"}, DisplayServerX11},
		{"nothing", map[string]string{}, DisplayServerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectDisplayServer(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstallCommand(t *testing.T) {
	assert.Equal(t, "sudo apt update && sudo apt install xdotool", InstallCommand("xdotool", DistroInfo{PkgManager: "apt"}))
	assert.Equal(t, "sudo dnf install xdotool", InstallCommand("xdotool", DistroInfo{PkgManager: "dnf"}))
	assert.Equal(t, "sudo pacman -S xdotool", InstallCommand("xdotool", DistroInfo{PkgManager: "pacman"}))
	assert.Empty(t, InstallCommand("xdotool", DistroInfo{PkgManager: "unknown"}))

	err := &MissingToolError{Tool: "xdotool", Install: "sudo apk add xdotool"}
	assert.Contains(t, err.Error(), "sudo apk add xdotool")
}
