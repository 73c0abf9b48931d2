package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// DumpCmd returns the "dump" command.
func DumpCmd(_ Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("dump", flag.ContinueOnError),
		Usage: "dump <path> <dest>",
		Short: "Atomically copy a buffer file's raw bytes to dest",
		Long:  "Copy the raw region bytes of the buffer file at <path> to <dest>, for offline inspection or bug reports.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execDump(o, args)
		},
	}
}

func execDump(o *IO, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: dump <path> <dest>")
	}

	rgn, buf, err := openExisting(args[0])
	if err != nil {
		return err
	}
	defer rgn.Close()

	if err := buf.DumpTo(args[1]); err != nil {
		return fmt.Errorf("dumping %s: %w", args[0], err)
	}

	o.Printf("dumped %s to %s\n", args[0], args[1])
	return nil
}
