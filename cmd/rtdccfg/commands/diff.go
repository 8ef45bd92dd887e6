package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func (a *app) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff A B",
		Short: "Compare two configurations entry by entry",
		Long: `Load both files and print a line diff of their canonical text forms.
The exit code is 1 if they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := a.load(nil, args[0])
			if err != nil {
				return err
			}
			right, err := a.load(nil, args[1])
			if err != nil {
				return err
			}
			if !a.printDiff(left.ToText(), right.ToText()) {
				return nil
			}
			return &ExitError{Code: 1, Msg: "configurations differ", Silent: true}
		},
	}
}

// printDiff writes a line diff of a and b and reports whether they differ.
func (a *app) printDiff(left, right string) bool {
	dmp := diffmatchpatch.New()
	l, r, lines := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(l, r, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	changed := false
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				changed = true
				removed.Fprintln(a.stdout, "-"+line)
			case diffmatchpatch.DiffInsert:
				changed = true
				added.Fprintln(a.stdout, "+"+line)
			default:
				fmt.Fprintln(a.stdout, " "+line)
			}
		}
	}
	return changed
}
