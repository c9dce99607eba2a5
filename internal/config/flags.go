package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/stigoleg/autoclick/internal/util"
)

// Flags holds command-line values. Setting flags override the profile only
// when given explicitly.
type Flags struct {
	ProfilePath string
	Backend     string
	URL         string
	ShowBrowser bool
	LogFile     string
	LogLevel    string

	interval    string
	count       int
	infinite    bool
	button      string
	style       string
	x           int
	y           int
	hold        int
	randomDelay string
	randomRange string
	humanize    float64
	repeat      int
	maxRuntime  string
	until       string
}

// Register adds every flag to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ProfilePath, "profile", "p", "", "YAML profile to load (default: user config dir)")
	fs.StringVar(&f.Backend, "backend", "", "pointer backend: native, dryrun or browser")
	fs.StringVar(&f.URL, "url", "", "page to open with the browser backend")
	fs.BoolVar(&f.ShowBrowser, "show-browser", false, "run the browser backend with a visible window")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file (default autoclick.log for the TUI, stderr otherwise)")
	fs.StringVar(&f.LogLevel, "log-level", "info", "log level: debug, info, warn or error")

	fs.StringVarP(&f.interval, "interval", "i", "", "delay between clicks (milliseconds or duration, e.g. 250 or 1.5s)")
	fs.IntVarP(&f.count, "count", "n", 0, "number of clicks before stopping")
	fs.BoolVar(&f.infinite, "infinite", false, "click until stopped")
	fs.StringVarP(&f.button, "button", "b", "", "mouse button: left, right or middle")
	fs.StringVar(&f.style, "style", "", "click style: single, double or triple")
	fs.IntVar(&f.x, "x", 0, "fixed target X (use with --y)")
	fs.IntVar(&f.y, "y", 0, "fixed target Y (use with --x)")
	fs.IntVar(&f.hold, "hold", 0, "press duration in milliseconds")
	fs.StringVar(&f.randomDelay, "random-delay", "", "random delay range in milliseconds, e.g. 500-1500")
	fs.StringVar(&f.randomRange, "random-range", "", "random position offset in pixels, e.g. 10 or 10,5")
	fs.Float64Var(&f.humanize, "humanize", 0, "timing variation fraction between 0 and 1")
	fs.IntVar(&f.repeat, "repeat", 0, "number of times to play the sequence")
	fs.StringVar(&f.maxRuntime, "max-runtime", "", "stop after this long (minutes or duration, e.g. 30 or 1h)")
	fs.StringVar(&f.until, "until", "", "stop at this wall-clock time (e.g. 17:30 or 5:30PM)")
}

// LoadProfile loads the profile named by --profile, or the per-user profile
// when it exists.
func (f *Flags) LoadProfile() (*Profile, string, error) {
	if f.ProfilePath != "" {
		p, err := Load(f.ProfilePath)
		return p, f.ProfilePath, err
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	p, err := LoadOrDefault(path)
	return p, path, err
}

// Apply copies explicitly set flags from fs onto p. now anchors --until.
func (f *Flags) Apply(fs *pflag.FlagSet, p *Profile, now time.Time) error {
	if fs.Changed("backend") {
		p.Backend = f.Backend
	}
	if fs.Changed("url") {
		p.URL = f.URL
	}
	if fs.Changed("interval") {
		d, err := util.ParseInterval(f.interval)
		if err != nil {
			return fmt.Errorf("--interval: %w", err)
		}
		p.IntervalMs = int(d.Milliseconds())
	}
	if fs.Changed("count") {
		p.Count = f.count
		p.Infinite = false
	}
	if fs.Changed("infinite") {
		p.Infinite = f.infinite
	}
	if fs.Changed("button") {
		p.Button = f.button
	}
	if fs.Changed("style") {
		p.Style = f.style
	}
	if fs.Changed("x") != fs.Changed("y") {
		return fmt.Errorf("--x and --y must be given together")
	}
	if fs.Changed("x") {
		p.Target = &Position{X: f.x, Y: f.y}
	}
	if fs.Changed("hold") {
		p.HoldMs = f.hold
	}
	if fs.Changed("random-delay") {
		lo, hi, err := parsePair(f.randomDelay, "-")
		if err != nil {
			return fmt.Errorf("--random-delay: %w", err)
		}
		r := p.randomization()
		r.DelayMinMs, r.DelayMaxMs = lo, hi
	}
	if fs.Changed("random-range") {
		rx, ry, err := parsePair(f.randomRange, ",")
		if err != nil {
			return fmt.Errorf("--random-range: %w", err)
		}
		r := p.randomization()
		r.RangeX, r.RangeY = rx, ry
	}
	if fs.Changed("humanize") {
		p.Humanization = &Humanization{Variation: f.humanize}
	}
	if fs.Changed("repeat") {
		p.SequenceRepeat = f.repeat
	}
	if fs.Changed("max-runtime") {
		p.MaxRuntime = f.maxRuntime
	}
	if fs.Changed("until") {
		d, err := util.UntilClock(f.until, now)
		if err != nil {
			return fmt.Errorf("--until: %w", err)
		}
		p.MaxRuntime = d.Round(time.Second).String()
	}
	return p.Validate()
}

// randomization returns p.Randomization, creating an empty one so that only
// the explicitly set part varies.
func (p *Profile) randomization() *Randomization {
	if p.Randomization == nil {
		p.Randomization = &Randomization{}
	}
	return p.Randomization
}

// parsePair reads "a<sep>b" or a single "a" meaning "a<sep>a".
func parsePair(s, sep string) (int, int, error) {
	first, second, found := strings.Cut(strings.TrimSpace(s), sep)
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", first)
	}
	if !found {
		return a, a, nil
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", second)
	}
	return a, b, nil
}
