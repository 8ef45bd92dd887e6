package commands

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/rtdcconfig/internal/config"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check PATTERN...",
		Short: "Report diagnostics of configuration files",
		Long: `Load every file matching the given patterns on its own and report
unknown sections and keys, empty or malformed values and deprecated entries.

Patterns may use ** to match directories recursively:
  rtdccfg check 'data/**/*.ini'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			return a.runCheck(files)
		},
	}
}

// expandPatterns resolves glob patterns into a sorted list of unique
// files. A pattern without matches is an error.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (a *app) runCheck(files []string) error {
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed, color.Bold)
	ok := color.New(color.FgGreen)

	total := 0
	for _, path := range files {
		var diags []config.Diagnostic
		if _, err := a.load(func(d config.Diagnostic) { diags = append(diags, d) }, path); err != nil {
			bad.Fprintf(a.stdout, "%s: %v\n", path, err)
			total++
			continue
		}
		if len(diags) == 0 {
			ok.Fprintf(a.stdout, "%s: ok\n", path)
			continue
		}
		for _, d := range diags {
			c := warn
			if d.Code.Blocking() {
				c = bad
			}
			c.Fprintf(a.stdout, "%s: %s: %s\n", path, d.Code, d.Error())
		}
		total += len(diags)
	}

	if total > 0 {
		return &ExitError{Code: 1, Msg: fmt.Sprintf("%d problem(s) found", total)}
	}
	return nil
}
