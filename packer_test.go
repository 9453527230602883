package chunkstage

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

var testStaging = MustParseAddress("0x7")

// sized returns a bundle with the given metadata and module sizes. Module i
// is filled with byte i so modules can be told apart.
func sized(metaLen int, moduleLens ...int) *Bundle {
	modules := make([][]byte, len(moduleLens))
	for i, n := range moduleLens {
		modules[i] = bytes.Repeat([]byte{byte(i)}, n)
	}
	return MustBundle(make([]byte, metaLen), modules)
}

// checkPlan verifies the invariants every packed plan must hold.
func checkPlan(t *testing.T, bundle *Bundle, plan *Plan, limit int, sizer Sizer) {
	t.Helper()

	if plan.Len() == 0 {
		t.Fatal("Plan must contain at least one call")
	}

	next := 0
	for i, call := range plan.Calls {
		if len(call.Indices()) != len(call.Code()) {
			t.Errorf("Call %d: %d indices but %d code chunks", i, len(call.Indices()), len(call.Code()))
		}

		for j, idx := range call.Indices() {
			if int(idx) != next {
				t.Errorf("Call %d: expected index %d, got %d", i, next, idx)
			}
			if !bytes.Equal(call.Code()[j], bundle.Module(int(idx))) {
				t.Errorf("Call %d: code for module %d does not match bundle", i, idx)
			}
			next++
		}

		if i == 0 {
			if !bytes.Equal(call.Metadata(), bundle.Metadata()) {
				t.Error("First call must carry the full metadata")
			}
		} else if len(call.Metadata()) != 0 {
			t.Errorf("Call %d: metadata must be empty after the first call", i)
		}

		if call.IsTerminal() != (i == plan.Len()-1) {
			t.Errorf("Call %d: terminal=%v, want %v", i, call.IsTerminal(), i == plan.Len()-1)
		}

		if call.Size(sizer) > limit && !oversizedUnit(call, limit, sizer) {
			t.Errorf("Call %d: size %d exceeds limit %d without an oversized module", i, call.Size(sizer), limit)
		}

		wantArgs := 3
		if call.Entry() == EntryUpgradeObject {
			wantArgs = 4
		}
		if len(call.Args()) != wantArgs {
			t.Errorf("Call %d: expected %d args, got %d", i, wantArgs, len(call.Args()))
		}
	}

	if next != bundle.Len() {
		t.Errorf("Expected %d modules across the plan, got %d", bundle.Len(), next)
	}
}

// oversizedUnit reports whether the call holds a single piece that is over
// the limit on its own: one oversized module, or oversized metadata alone.
func oversizedUnit(call *StageCall, limit int, sizer Sizer) bool {
	switch len(call.Code()) {
	case 0:
		return sizer(call.Metadata()) > limit
	case 1:
		return sizer(call.Code()[0]) > limit
	default:
		return false
	}
}

func moduleSets(plan *Plan) [][]uint16 {
	sets := make([][]uint16, plan.Len())
	for i, call := range plan.Calls {
		sets[i] = call.Indices()
	}
	return sets
}

func equalSets(a, b [][]uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestPackScenarios(t *testing.T) {
	tests := []struct {
		name   string
		bundle *Bundle
		opts   []PackOption
		limit  int
		sizer  Sizer
		want   [][]uint16
	}{
		{
			name:   "two large modules and a small one",
			bundle: sized(10, 50000, 50000, 100),
			opts:   []PackOption{WithChunkSize(60000)},
			limit:  60000,
			sizer:  HexSize,
			want:   [][]uint16{{0}, {1}, {2}},
		},
		{
			name:   "raw sizing joins modules that fit",
			bundle: sized(10, 50000, 50000, 100),
			opts:   []PackOption{WithChunkSize(60000), WithSizer(RawSize)},
			limit:  60000,
			sizer:  RawSize,
			want:   [][]uint16{{0}, {1, 2}},
		},
		{
			name:   "no modules",
			bundle: sized(10),
			opts:   nil,
			limit:  DefaultChunkSize,
			sizer:  HexSize,
			want:   [][]uint16{{}},
		},
		{
			name:   "everything fits in one call",
			bundle: sized(100, 200, 300, 400),
			opts:   nil,
			limit:  DefaultChunkSize,
			sizer:  HexSize,
			want:   [][]uint16{{0, 1, 2}},
		},
		{
			name:   "oversized module sits alone",
			bundle: sized(0, 10, 500, 10),
			opts:   []PackOption{WithChunkSize(100), WithSizer(RawSize)},
			limit:  100,
			sizer:  RawSize,
			want:   [][]uint16{{0}, {1}, {2}},
		},
		{
			name:   "exact fit stays in one batch",
			bundle: sized(5, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20),
			opts:   []PackOption{WithChunkSize(100), WithSizer(RawSize)},
			limit:  100,
			sizer:  RawSize,
			want:   [][]uint16{{0, 1, 2, 3}, {4, 5, 6, 7, 8}, {9}},
		},
		{
			name:   "metadata travels alone when the first module does not fit beside it",
			bundle: sized(6, 5, 1),
			opts:   []PackOption{WithChunkSize(10), WithSizer(RawSize)},
			limit:  10,
			sizer:  RawSize,
			want:   [][]uint16{{}, {0, 1}},
		},
		{
			name:   "default limit splits large metadata from the first module",
			bundle: sized(20000, 15000),
			opts:   nil,
			limit:  DefaultChunkSize,
			sizer:  HexSize,
			want:   [][]uint16{{}, {0}},
		},
		{
			name:   "oversized metadata travels alone",
			bundle: sized(50, 5, 5),
			opts:   []PackOption{WithChunkSize(10), WithSizer(RawSize)},
			limit:  10,
			sizer:  RawSize,
			want:   [][]uint16{{}, {0, 1}},
		},
		{
			name:   "oversized first module joins the metadata",
			bundle: sized(6, 20, 1),
			opts:   []PackOption{WithChunkSize(10), WithSizer(RawSize)},
			limit:  10,
			sizer:  RawSize,
			want:   [][]uint16{{0}, {1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPacker(AccountIntent(testStaging)).Pack(tt.bundle, tt.opts...)
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}

			checkPlan(t, tt.bundle, plan, tt.limit, tt.sizer)

			if got := moduleSets(plan); !equalSets(got, tt.want) {
				t.Errorf("Expected batches %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPackEmptyBundle(t *testing.T) {
	bundle := MustBundle([]byte("metadata"), nil)

	plan, err := NewPacker(ObjectIntent(testStaging)).Pack(bundle)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if plan.Len() != 1 {
		t.Fatalf("Expected 1 call, got %d", plan.Len())
	}

	call := plan.Terminal()
	if call.Entry() != EntryPublishToObject {
		t.Errorf("Expected %s, got %s", EntryPublishToObject, call.Entry())
	}
	if !bytes.Equal(call.Metadata(), []byte("metadata")) {
		t.Error("Terminal call should carry the metadata")
	}
	if len(call.Indices()) != 0 || len(call.Code()) != 0 {
		t.Error("Terminal call should carry no modules")
	}
}

func TestPackEntries(t *testing.T) {
	object := MustParseAddress("0xbeef")
	bundle := sized(10, 50000, 50000, 100)

	tests := []struct {
		name     string
		intent   Intent
		terminal Entry
	}{
		{"account", AccountIntent(testStaging), EntryPublishToAccount},
		{"object", ObjectIntent(testStaging), EntryPublishToObject},
		{"upgrade", UpgradeIntent(testStaging, object), EntryUpgradeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPacker(tt.intent).Pack(bundle, WithChunkSize(60000))
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}

			terminals := 0
			for i, call := range plan.Calls {
				if call.IsTerminal() {
					terminals++
					if call.Entry() != tt.terminal {
						t.Errorf("Expected terminal %s, got %s", tt.terminal, call.Entry())
					}
					continue
				}
				if call.Entry() != EntryStageChunk {
					t.Errorf("Call %d: expected %s, got %s", i, EntryStageChunk, call.Entry())
				}
			}
			if terminals != 1 {
				t.Errorf("Expected exactly 1 terminal call, got %d", terminals)
			}

			for _, call := range plan.Calls {
				if call.Function().Address != testStaging {
					t.Errorf("Expected function at %s, got %s", testStaging, call.Function().Address)
				}
			}

			addr, ok := plan.Terminal().ObjectAddress()
			if tt.intent.Kind == TargetObjectUpgrade {
				if !ok || addr != object {
					t.Errorf("Upgrade call should carry %s", object)
				}
			} else if ok {
				t.Error("Only upgrade calls carry an object address")
			}
		})
	}
}

func TestPackErrors(t *testing.T) {
	packer := NewPacker(AccountIntent(testStaging))

	t.Run("zero chunk size", func(t *testing.T) {
		_, err := packer.Pack(sized(1, 1), WithChunkSize(0))
		if !errors.Is(err, ErrInvalidChunkSize) {
			t.Errorf("Expected ErrInvalidChunkSize, got %v", err)
		}
	})

	t.Run("negative chunk size", func(t *testing.T) {
		_, err := packer.Pack(sized(1, 1), WithChunkSize(-5))
		if !errors.Is(err, ErrInvalidChunkSize) {
			t.Errorf("Expected ErrInvalidChunkSize, got %v", err)
		}
	})

	t.Run("nil bundle", func(t *testing.T) {
		_, err := packer.Pack(nil)
		if !errors.Is(err, ErrMalformedBundle) {
			t.Errorf("Expected ErrMalformedBundle, got %v", err)
		}
	})

	t.Run("zero staging address", func(t *testing.T) {
		_, err := NewPacker(AccountIntent(Address{})).Pack(sized(1, 1))
		if !errors.Is(err, ErrMissingStagingAddress) {
			t.Errorf("Expected ErrMissingStagingAddress, got %v", err)
		}
	})

	t.Run("upgrade without object", func(t *testing.T) {
		_, err := NewPacker(UpgradeIntent(testStaging, Address{})).Pack(sized(1, 1))
		if !errors.Is(err, ErrMissingObjectAddress) {
			t.Errorf("Expected ErrMissingObjectAddress, got %v", err)
		}
	})
}

func TestPackRandomBundles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizers := []struct {
		name  string
		sizer Sizer
	}{
		{"raw", RawSize},
		{"hex", HexSize},
	}

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		lens := make([]int, n)
		for i := range lens {
			lens[i] = rng.Intn(3000)
		}
		bundle := sized(rng.Intn(2000), lens...)
		limit := 500 + rng.Intn(4000)

		for _, s := range sizers {
			plan, err := NewPacker(UpgradeIntent(testStaging, MustParseAddress("0x1"))).
				Pack(bundle, WithChunkSize(limit), WithSizer(s.sizer))
			if err != nil {
				t.Fatalf("round %d (%s): Pack failed: %v", round, s.name, err)
			}
			checkPlan(t, bundle, plan, limit, s.sizer)

			// Greedy: the first module of every batch after the first would
			// not have fit into the batch before it.
			for i := 1; i < plan.Len(); i++ {
				prev := plan.Call(i - 1)
				first := plan.Call(i).Code()[0]
				if prev.Size(s.sizer)+s.sizer(first) <= limit {
					t.Errorf("round %d (%s): call %d closed early", round, s.name, i-1)
				}
			}
		}
	}
}

func TestPlanAccessors(t *testing.T) {
	plan, err := NewPacker(AccountIntent(testStaging)).Pack(sized(0, 10, 10, 10), WithChunkSize(10), WithSizer(RawSize))
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	t.Run("Len and StageCount", func(t *testing.T) {
		if plan.Len() != 3 || plan.StageCount() != 3 {
			t.Errorf("Expected 3 calls, got Len=%d StageCount=%d", plan.Len(), plan.StageCount())
		}
	})

	t.Run("Call out of range", func(t *testing.T) {
		if plan.Call(-1) != nil || plan.Call(3) != nil {
			t.Error("Out of range Call() should be nil")
		}
	})

	t.Run("Terminal of empty plan", func(t *testing.T) {
		if (&Plan{}).Terminal() != nil {
			t.Error("Terminal() of an empty plan should be nil")
		}
	})

	t.Run("ForEachCall stops early", func(t *testing.T) {
		count := 0
		plan.ForEachCall(func(i int, _ *StageCall) bool {
			count++
			return i < 1
		})
		if count != 2 {
			t.Errorf("Expected 2 iterations, got %d", count)
		}
	})

	t.Run("Intent", func(t *testing.T) {
		p := NewPacker(AccountIntent(testStaging))
		if p.Intent().Kind != TargetAccount {
			t.Error("Intent() should return the packer's intent")
		}
	})
}
