package ringbuf_test

import (
	"math/rand/v2"
	"testing"

	"github.com/calvinalkan/ringbuf/pkg/ringbuf"
	"github.com/calvinalkan/ringbuf/pkg/ringbuf/internal/testutil"
	"github.com/calvinalkan/ringbuf/pkg/ringbuf/model"
	"github.com/calvinalkan/ringbuf/pkg/ringbuf/region"
)

// profiles exercises a spread of capacities and alignments; a single
// profile would leave most of the allocator's wrap and eviction boundary
// behavior unreached.
var profiles = []struct {
	name      string
	capacity  int
	alignment uint32
}{
	{"tiny-aligned8", 256, 8},
	{"small-aligned16", 1024, 16},
	{"medium-aligned32", 8192, 32},
	{"large-aligned8", 65536, 8},
}

func Test_Metamorphic_ModelAgreesWithReal_AcrossProfiles(t *testing.T) {
	const opsPerRun = 400
	const runsPerProfile = 25

	for _, p := range profiles {
		t.Run(p.name, func(t *testing.T) {
			for run := 0; run < runsPerProfile; run++ {
				seed := uint64(run)*1_000_003 + uint64(len(p.name))
				rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))

				fuzzBytes := make([]byte, opsPerRun*6)
				for i := range fuzzBytes {
					fuzzBytes[i] = byte(rng.Uint32())
				}

				opts := ringbuf.Options{Alignment: p.alignment}
				buf, err := ringbuf.New(region.Heap(p.capacity+headerSizeForTest), opts)
				if err != nil {
					t.Fatalf("New: %v", err)
				}

				m := model.New(buf.Capacity(), opts)
				h := testutil.New(fuzzBytes, testutil.DefaultConfig(), buf, m)

				for i := 0; i < opsPerRun && h.HasMore(); i++ {
					if err := h.Step(); err != nil {
						t.Fatalf("run=%d step=%d: %v", run, i, err)
					}
					if err := h.CheckInvariants(); err != nil {
						t.Fatalf("run=%d step=%d invariants: %v", run, i, err)
					}
				}
			}
		})
	}
}

// headerSizeForTest overestimates the header so every profile capacity is
// reachable regardless of the buffer's actual fixed header size.
const headerSizeForTest = 128
