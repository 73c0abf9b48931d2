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

// NewCmd returns the "new" command.
func NewCmd(cfg Config) *Command {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	capacity := fs.Int("capacity", cfg.Capacity, "usable cache capacity in bytes")
	alignment := fs.Uint32("alignment", cfg.Alignment, "node alignment, a power of two >= 8")

	return &Command{
		Flags: fs,
		Usage: "new [flags] <path>",
		Short: "Create a new file-backed ring buffer",
		Long:  "Create a new file at <path>, sized and aligned as given, with a freshly initialized empty buffer.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execNew(o, args, *capacity, *alignment)
		},
	}
}

func execNew(o *IO, args []string, capacity int, alignment uint32) error {
	if len(args) == 0 {
		return errors.New("missing <path>")
	}
	path := args[0]

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s (use 'ringbuf inspect %s' to look at it)", path, path)
	}

	opts := ringbuf.Options{Alignment: alignment}
	size := ringbuf.HeapCost(opts) + capacity

	rgn, err := region.OpenFile(path, size)
	if err != nil {
		return fmt.Errorf("creating region: %w", err)
	}
	defer rgn.Close()

	buf, err := ringbuf.New(rgn.Bytes(), opts)
	if err != nil {
		return fmt.Errorf("initializing buffer: %w", err)
	}

	o.Printf("created %s (capacity=%d alignment=%d)\n", path, buf.Capacity(), alignment)
	return nil
}
