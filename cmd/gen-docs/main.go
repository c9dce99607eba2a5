package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stigoleg/autoclick/internal/cli"
)

// gen-docs writes shell completions and a roff man page generated from the
// autoclick command tree.

func main() {
	root := cli.NewRootCommand("dev")

	if err := writeCompletions(root, filepath.Join("docs", "completions")); err != nil {
		fmt.Fprintf(os.Stderr, "completions: %v\n", err)
		os.Exit(1)
	}
	if err := writeMan(root, "man"); err != nil {
		fmt.Fprintf(os.Stderr, "man page: %v\n", err)
		os.Exit(1)
	}
}

func writeCompletions(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	gens := []struct {
		file string
		gen  func(string) error
	}{
		{cli.Name + ".bash", func(p string) error { return root.GenBashCompletionFileV2(p, true) }},
		{"_" + cli.Name, root.GenZshCompletionFile},
		{cli.Name + ".fish", func(p string) error { return root.GenFishCompletionFile(p, true) }},
		{cli.Name + ".ps1", root.GenPowerShellCompletionFileWithDesc},
	}
	for _, g := range gens {
		if err := g.gen(filepath.Join(dir, g.file)); err != nil {
			return fmt.Errorf("%s: %w", g.file, err)
		}
	}
	return nil
}

func writeMan(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(cli.Name) + "\" \"1\" \"\" \"" + cli.Name + "\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + cli.Name + " \\- " + roff(cli.Description) + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + cli.Name + "\n[\\fIcommand\\fR] [\\fIflags\\fR]\n")
	b.WriteString(".SH DESCRIPTION\n" + roff(root.Long) + "\n")

	b.WriteString(".SH COMMANDS\n")
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		b.WriteString(".TP\n\\fB" + c.Name() + "\\fR\n" + roff(c.Short) + "\n")
	}

	b.WriteString(".SH OPTIONS\n")
	writeFlags(&b, root.PersistentFlags())
	for _, c := range root.Commands() {
		if c.HasLocalFlags() && c.IsAvailableCommand() {
			b.WriteString(".SS " + c.Name() + "\n")
			writeFlags(&b, c.LocalNonPersistentFlags())
		}
	}

	b.WriteString(".SH EXAMPLES\n")
	for _, c := range root.Commands() {
		if c.Example != "" {
			b.WriteString(".nf\n" + roff(c.Example) + "\n.fi\n")
		}
	}
	b.WriteString(".SH FILES\n.TP\n\\fI$XDG_CONFIG_HOME/" + cli.Name + "/profile.yaml\\fR\nDefault profile.\n")
	return os.WriteFile(filepath.Join(dir, cli.Name+".1"), []byte(b.String()), 0o644)
}

func writeFlags(b *strings.Builder, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		names := "\\-\\-" + f.Name
		if f.Shorthand != "" {
			names = "\\-" + f.Shorthand + ", " + names
		}
		if t := f.Value.Type(); t != "bool" {
			names += " \\fI" + t + "\\fR"
		}
		b.WriteString(".TP\n\\fB" + names + "\\fR\n" + roff(f.Usage) + "\n")
	})
}

func roff(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "-", "\\-")
}
