package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/calvinalkan/ringbuf/pkg/ringbuf"
	"github.com/calvinalkan/ringbuf/pkg/ringbuf/region"

	flag "github.com/spf13/pflag"
)

// InspectCmd returns the "inspect" command.
func InspectCmd(_ Config) *Command {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "list every live record, not just the summary")

	return &Command{
		Flags: fs,
		Usage: "inspect [flags] <path>",
		Short: "Print header and occupancy info for an existing buffer file",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execInspect(o, args, *verbose)
		},
	}
}

func openExisting(path string) (*region.FileRegion, *ringbuf.Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("file does not exist: %s (use 'ringbuf new %s' to create it)", path, path)
	}

	rgn, err := region.OpenFile(path, int(info.Size()))
	if err != nil {
		return nil, nil, fmt.Errorf("opening region: %w", err)
	}

	buf, err := ringbuf.Open(rgn.Bytes(), ringbuf.Options{})
	if err != nil {
		_ = rgn.Close()
		return nil, nil, fmt.Errorf("attaching to buffer: %w", err)
	}

	return rgn, buf, nil
}

func execInspect(o *IO, args []string, verbose bool) error {
	if len(args) == 0 {
		return errors.New("missing <path>")
	}

	rgn, buf, err := openExisting(args[0])
	if err != nil {
		return err
	}
	defer rgn.Close()

	count := 0
	var totalPayload int
	buf.ForEach(func(e ringbuf.Entry) bool {
		count++
		totalPayload += e.Len
		if verbose {
			o.Printf("  %3d. len=%d\n", count, e.Len)
		}
		return true
	})

	o.Printf("path:            %s\n", args[0])
	o.Printf("capacity:        %d bytes\n", buf.Capacity())
	o.Printf("used:            %d bytes\n", buf.Used())
	o.Printf("live records:    %d\n", count)
	o.Printf("live payload:    %d bytes\n", totalPayload)

	return nil
}
