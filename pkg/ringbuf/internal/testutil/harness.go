package testutil

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/ringbuf/pkg/ringbuf"
	"github.com/calvinalkan/ringbuf/pkg/ringbuf/model"
)

// Config controls the distribution of operations a Harness generates.
type Config struct {
	// PayloadMaxLen bounds generated payload lengths.
	PayloadMaxLen int

	// ReserveRate and ConsumeRate are the percentage of steps (0-100) spent
	// on reserve and consume; Step spends every remaining step on a commit.
	// CommitRate is not read by Step.
	ReserveRate int
	ConsumeRate int
	CommitRate  int

	// OverwriteRate is the percentage of reserves that set ReserveOverwrite.
	OverwriteRate int

	// DiscardRate is the percentage of commits that set CommitDiscard.
	DiscardRate int

	// ConsumeOnErrorRate is the percentage of discarding-a-Reading commits
	// that also set CommitConsumeOnError.
	ConsumeOnErrorRate int
}

// DefaultConfig returns a balanced configuration exercising every flag
// combination with reasonable frequency.
func DefaultConfig() Config {
	return Config{
		PayloadMaxLen:      64,
		ReserveRate:        45,
		ConsumeRate:        25,
		CommitRate:         30,
		OverwriteRate:      50,
		DiscardRate:        35,
		ConsumeOnErrorRate: 50,
	}
}

type pendingWrite struct {
	tok *ringbuf.Token
	rec *model.Record
}

type pendingRead struct {
	tok *ringbuf.Token
	rec *model.Record
}

// Harness runs the same sequence of reserve/commit/consume operations
// against a real Buffer and a model.Model side by side, failing loudly the
// moment they disagree. It is the single point where fuzz and property
// tests hang their comparisons.
type Harness struct {
	stream *ByteStream
	cfg    Config

	Buf   *ringbuf.Buffer
	Model *model.Model

	writers []pendingWrite
	readers []pendingRead
}

// New creates a Harness over an already-constructed buffer and model that
// share the same capacity and options.
func New(fuzzBytes []byte, cfg Config, buf *ringbuf.Buffer, m *model.Model) *Harness {
	return &Harness{stream: NewByteStream(fuzzBytes), cfg: cfg, Buf: buf, Model: m}
}

// HasMore reports whether the underlying byte stream has unread input left
// to drive further steps.
func (h *Harness) HasMore() bool {
	return h.stream.HasMore()
}

// Step performs one randomly chosen operation against both the real buffer
// and the model, and returns a descriptive error the instant their
// observable behavior disagrees. A nil return means they still agree.
func (h *Harness) Step() error {
	choice := h.stream.NextInt(100)

	switch {
	case choice < h.cfg.ReserveRate:
		return h.stepReserve()
	case choice < h.cfg.ReserveRate+h.cfg.ConsumeRate:
		return h.stepConsume()
	default:
		return h.stepCommit()
	}
}

func (h *Harness) stepReserve() error {
	length := h.stream.NextPayloadLen(h.cfg.PayloadMaxLen)
	overwrite := h.stream.NextInt(100) < h.cfg.OverwriteRate

	var flags ringbuf.ReserveFlag
	if overwrite {
		flags = ringbuf.ReserveOverwrite
	}

	tok, realErr := h.Buf.Reserve(length, flags)
	rec, modelOK := h.Model.Reserve(length, overwrite)

	if (realErr == nil) != modelOK {
		return fmt.Errorf("Reserve(len=%d, overwrite=%v): real err=%v, model ok=%v", length, overwrite, realErr, modelOK)
	}
	if realErr != nil {
		return nil
	}

	if got, want := tok.Len(), len(rec.Payload); got != want {
		return fmt.Errorf("Reserve(len=%d): real token len=%d, model record len=%d", length, got, want)
	}

	h.writers = append(h.writers, pendingWrite{tok: tok, rec: rec})
	return nil
}

func (h *Harness) stepConsume() error {
	tok, _, realErr := h.Buf.Consume()
	rec, _, modelOK := h.Model.Consume()

	if (realErr == nil) != modelOK {
		return fmt.Errorf("Consume: real err=%v, model ok=%v", realErr, modelOK)
	}
	if realErr != nil {
		return nil
	}

	if got, want := tok.Len(), len(rec.Payload); got != want {
		return fmt.Errorf("Consume: real token len=%d, model record len=%d", got, want)
	}

	h.readers = append(h.readers, pendingRead{tok: tok, rec: rec})
	return nil
}

func (h *Harness) stepCommit() error {
	// Commit a writer when only writers are pending, a reader when only
	// readers are, and pick one by a coin flip when both are; empty queues
	// degrade Step into a no-op rather than an error.
	if len(h.writers) > 0 && (len(h.readers) == 0 || h.stream.NextBool()) {
		return h.commitWriter()
	}
	if len(h.readers) > 0 {
		return h.commitReader()
	}
	return nil
}

func (h *Harness) commitWriter() error {
	i := h.stream.NextInt(len(h.writers))
	pw := h.writers[i]
	h.writers = append(h.writers[:i], h.writers[i+1:]...)

	discard := h.stream.NextInt(100) < h.cfg.DiscardRate
	var flags ringbuf.CommitFlag
	if discard {
		flags = ringbuf.CommitDiscard
	}

	realErr := pw.tok.Commit(flags)
	h.Model.CommitWriting(pw.rec, discard)

	if realErr != nil {
		return fmt.Errorf("commit writer (discard=%v): real err=%v, model never fails a Writing commit", discard, realErr)
	}
	return nil
}

func (h *Harness) commitReader() error {
	i := h.stream.NextInt(len(h.readers))
	pr := h.readers[i]

	discard := h.stream.NextInt(100) < h.cfg.DiscardRate
	consumeOnError := discard && h.stream.NextInt(100) < h.cfg.ConsumeOnErrorRate

	var flags ringbuf.CommitFlag
	if discard {
		flags |= ringbuf.CommitDiscard
	}
	if consumeOnError {
		flags |= ringbuf.CommitConsumeOnError
	}

	realErr := pr.tok.Commit(flags)
	modelOK := h.Model.CommitReading(pr.rec, discard, consumeOnError)

	if (realErr == nil) != modelOK {
		return fmt.Errorf("commit reader (discard=%v, consumeOnError=%v): real err=%v, model ok=%v", discard, consumeOnError, realErr, modelOK)
	}

	h.readers = append(h.readers[:i], h.readers[i+1:]...)
	return nil
}

// CheckInvariants compares the buffer's and model's externally observable
// state: used bytes and the FIFO order of every live entry.
func (h *Harness) CheckInvariants() error {
	if got, want := h.Buf.Used(), h.Model.Used(); got != want {
		return fmt.Errorf("Used: real=%d, model=%d", got, want)
	}

	var realLens []int
	h.Buf.ForEach(func(e ringbuf.Entry) bool {
		realLens = append(realLens, e.Len)
		return true
	})

	var modelLens []int
	h.Model.ForEach(func(r *model.Record) bool {
		modelLens = append(modelLens, len(r.Payload))
		return true
	})

	if diff := cmp.Diff(modelLens, realLens); diff != "" {
		return fmt.Errorf("ForEach entry lengths, model vs real (-want +got):\n%s", diff)
	}
	return nil
}
