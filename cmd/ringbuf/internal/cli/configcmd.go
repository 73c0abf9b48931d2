package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// ConfigCmd returns the "config" command.
func ConfigCmd(cfg Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("config", flag.ContinueOnError),
		Usage: "config",
		Short: "Print the effective configuration",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			text, err := FormatConfig(cfg)
			if err != nil {
				return err
			}
			o.Printf("%s", text)
			return nil
		},
	}
}
