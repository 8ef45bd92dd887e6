package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dshills/rtdcconfig/internal/config"
	"github.com/dshills/rtdcconfig/internal/config/loader"
)

func (a *app) convertCommand() *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert configuration files to another format",
		Long: `Merge the given files and write the result as text, json, toml or yaml.

Examples:
  rtdccfg convert meta.ini --to json
  rtdccfg convert meta.ini extra.toml --to text -o merged.ini`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := loader.ParseFormat(to)
			if err != nil {
				return err
			}
			cfg, err := a.load(nil, args...)
			if err != nil {
				return err
			}
			data, err := encode(cfg, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = a.stdout.Write(data)
				return err
			}
			if err := afero.WriteFile(a.fs, output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "text", "Output format (text|json|toml|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func encode(cfg *config.Configuration, format loader.Format) ([]byte, error) {
	switch format {
	case loader.FormatJSON:
		data, err := cfg.ToJSON()
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case loader.FormatTOML:
		return cfg.ToTOML()
	case loader.FormatYAML:
		return cfg.ToYAML()
	default:
		return []byte(cfg.ToText()), nil
	}
}
