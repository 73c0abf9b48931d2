package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/calvinalkan/ringbuf/pkg/ringbuf"
	"github.com/calvinalkan/ringbuf/pkg/ringbuf/region"
	"github.com/peterh/liner"

	flag "github.com/spf13/pflag"
)

// ReplCmd returns the "repl" command.
func ReplCmd(cfg Config) *Command {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	capacity := fs.Int("capacity", cfg.Capacity, "usable cache capacity in bytes, if <path> does not exist yet")
	alignment := fs.Uint32("alignment", cfg.Alignment, "node alignment, if <path> does not exist yet")

	return &Command{
		Flags: fs,
		Usage: "repl [flags] <path>",
		Short: "Open an interactive session against a buffer file",
		Long:  "Open (creating if missing) a file-backed buffer and drive reserve/consume/commit interactively.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRepl(o, args, *capacity, *alignment)
		},
	}
}

func execRepl(o *IO, args []string, capacity int, alignment uint32) error {
	if len(args) == 0 {
		return errors.New("missing <path>")
	}
	path := args[0]

	opts := ringbuf.Options{Alignment: alignment}

	var rgn *region.FileRegion
	var buf *ringbuf.Buffer

	if info, statErr := os.Stat(path); statErr == nil {
		var err error
		rgn, err = region.OpenFile(path, int(info.Size()))
		if err != nil {
			return fmt.Errorf("opening region: %w", err)
		}
		buf, err = ringbuf.Open(rgn.Bytes(), opts)
		if err != nil {
			_ = rgn.Close()
			return fmt.Errorf("attaching to buffer: %w", err)
		}
	} else {
		var err error
		size := ringbuf.HeapCost(opts) + capacity
		rgn, err = region.OpenFile(path, size)
		if err != nil {
			return fmt.Errorf("creating region: %w", err)
		}
		buf, err = ringbuf.New(rgn.Bytes(), opts)
		if err != nil {
			_ = rgn.Close()
			return fmt.Errorf("initializing buffer: %w", err)
		}
	}
	defer rgn.Close()

	r := &repl{
		io:      o,
		path:    path,
		buf:     buf,
		writers: make(map[int]*ringbuf.Token),
		readers: make(map[int]*ringbuf.Token),
	}

	return r.run()
}

// repl is the interactive command loop. Reserved-but-uncommitted and
// consumed-but-uncommitted tokens are kept alive across lines under small
// integer handles, since a single REPL session can juggle several of each
// at once (mirroring the overlapping-readers scenarios the core supports).
type repl struct {
	io    *IO
	path  string
	buf   *ringbuf.Buffer
	liner *liner.State

	nextWriter int
	writers    map[int]*ringbuf.Token
	nextReader int
	readers    map[int]*ringbuf.Token
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ringbuf_history")
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	r.io.Printf("ringbuf - interactive session on %s (capacity=%d)\n", r.path, r.buf.Capacity())
	r.io.Println("Type 'help' for available commands.")
	r.io.Println()

	for {
		line, err := r.liner.Prompt("ringbuf> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.io.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.io.Println("Bye!")
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "reserve":
			r.cmdReserve(args)
		case "commit":
			r.cmdCommit(args)
		case "consume":
			r.cmdConsume(args)
		case "scan", "ls":
			r.cmdScan()
		case "info":
			r.cmdInfo()
		default:
			r.io.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

func (r *repl) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *repl) completer(line string) []string {
	commands := []string{"reserve", "commit", "consume", "scan", "ls", "info", "help", "exit", "quit", "q"}

	var completions []string
	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}
	return completions
}

func (r *repl) printHelp() {
	r.io.Println("Commands:")
	r.io.Println("  reserve <len> [overwrite]        Reserve <len> random bytes, return a writer handle")
	r.io.Println("  commit <writer-id> [discard]     Commit (or discard) a reserved writer")
	r.io.Println("  consume                          Consume the oldest committed record, return a reader handle")
	r.io.Println("  commit <reader-id> [discard] [force]")
	r.io.Println("                                   Confirm (or discard, optionally forced) a consumed reader")
	r.io.Println("  scan                             List all live records oldest to newest")
	r.io.Println("  info                             Show capacity/used/lost")
	r.io.Println("  help                             Show this help")
	r.io.Println("  exit / quit / q                  Exit")
}

func (r *repl) cmdReserve(args []string) {
	if len(args) < 1 {
		r.io.Println("Usage: reserve <len> [overwrite]")
		return
	}

	length, err := strconv.Atoi(args[0])
	if err != nil || length < 0 {
		r.io.Println("Error: <len> must be a non-negative integer")
		return
	}

	var flags ringbuf.ReserveFlag
	if len(args) >= 2 && strings.EqualFold(args[1], "overwrite") {
		flags = ringbuf.ReserveOverwrite
	}

	tok, err := r.buf.Reserve(length, flags)
	if err != nil {
		r.io.Printf("Error: %v\n", err)
		return
	}

	_, _ = rand.Read(tok.Data())

	id := r.nextWriter
	r.nextWriter++
	r.writers[id] = tok

	r.io.Printf("OK: writer %d reserved %d bytes: %s\n", id, length, hex.EncodeToString(tok.Data()))
}

func (r *repl) cmdCommit(args []string) {
	if len(args) < 1 {
		r.io.Println("Usage: commit <id> [discard] [force]")
		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		r.io.Println("Error: <id> must be an integer")
		return
	}

	var flags ringbuf.CommitFlag
	for _, a := range args[1:] {
		switch strings.ToLower(a) {
		case "discard":
			flags |= ringbuf.CommitDiscard
		case "force":
			flags |= ringbuf.CommitConsumeOnError
		}
	}

	if tok, ok := r.writers[id]; ok {
		if err := tok.Commit(flags); err != nil {
			r.io.Printf("Error: %v\n", err)
			return
		}
		delete(r.writers, id)
		r.io.Printf("OK: writer %d committed\n", id)
		return
	}

	if tok, ok := r.readers[id]; ok {
		if err := tok.Commit(flags); err != nil {
			r.io.Printf("Error: %v\n", err)
			return
		}
		delete(r.readers, id)
		if flags&ringbuf.CommitDiscard != 0 {
			r.io.Printf("OK: reader %d un-consumed\n", id)
		} else {
			r.io.Printf("OK: reader %d confirmed\n", id)
		}
		return
	}

	r.io.Printf("Error: no writer or reader handle %d\n", id)
}

func (r *repl) cmdConsume(_ []string) {
	tok, lost, err := r.buf.Consume()
	if err != nil {
		r.io.Printf("Error: %v\n", err)
		return
	}

	id := r.nextReader
	r.nextReader++
	r.readers[id] = tok

	r.io.Printf("OK: reader %d consumed %d bytes (lost=%d): %s\n", id, tok.Len(), lost, hex.EncodeToString(tok.Data()))
}

func (r *repl) cmdScan() {
	n := 0
	r.buf.ForEach(func(e ringbuf.Entry) bool {
		n++
		r.io.Printf("%3d. len=%d %s\n", n, e.Len, hex.EncodeToString(e.Data))
		return true
	})
	if n == 0 {
		r.io.Println("(empty)")
	}
}

func (r *repl) cmdInfo() {
	r.io.Printf("capacity: %d\n", r.buf.Capacity())
	r.io.Printf("used:     %d\n", r.buf.Used())
	r.io.Printf("writers pending: %d\n", len(r.writers))
	r.io.Printf("readers pending: %d\n", len(r.readers))
}
