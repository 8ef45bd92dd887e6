package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) showCommand() *cobra.Command {
	var sections []string
	var summary bool

	cmd := &cobra.Command{
		Use:   "show FILE...",
		Short: "Print the merged configuration in canonical text form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(nil, args...)
			if err != nil {
				return err
			}
			if summary {
				fmt.Fprint(a.stdout, cfg.String())
				return nil
			}
			fmt.Fprint(a.stdout, cfg.ToText(sections...))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&sections, "section", "s", nil, "Only print these sections")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print an indented listing instead of the file format")
	return cmd
}
