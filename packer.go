package chunkstage

// Packer splits package artifacts into stage calls for one deployment intent.
type Packer struct {
	intent   Intent
	contract *StagingContract
}

// NewPacker creates a Packer for the given intent.
func NewPacker(intent Intent) *Packer {
	return &Packer{
		intent:   intent,
		contract: intent.Contract(),
	}
}

// Intent returns the deployment intent the packer resolves entries against.
func (p *Packer) Intent() Intent {
	return p.intent
}

// Pack partitions the bundle into stage calls.
//
// Modules are taken in their original order and added to the current batch
// until the next one would push it over the chunk size; that module then
// starts a new batch. The metadata rides in the first batch only; when the
// first module does not fit beside it, the metadata travels alone. A module
// larger than the chunk size still gets a batch of its own. A bundle without
// modules yields a single terminal call carrying only the metadata.
func (p *Packer) Pack(bundle *Bundle, opts ...PackOption) (*Plan, error) {
	cfg := defaultPackConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if bundle == nil {
		return nil, &BundleError{Module: -1, Reason: "nil bundle"}
	}
	if err := p.intent.Validate(); err != nil {
		return nil, err
	}

	// Phase 1: Greedy batching
	batches := make([]*batch, 0, 1+bundle.Size()/cfg.chunkSize)
	current := newBatch(bundle.Metadata(), cfg.sizer)

	for i := 0; i < bundle.Len(); i++ {
		code := bundle.Module(i)
		if !current.admits(code, cfg.chunkSize, cfg.sizer) {
			batches = append(batches, current)
			current = newBatch(nil, cfg.sizer)
		}
		current.add(i, code, cfg.sizer)
	}
	batches = append(batches, current)

	// Phase 2: Resolve entries and build calls
	calls := make([]*StageCall, 0, len(batches))
	last := len(batches) - 1

	for i, b := range batches {
		entry, err := ResolveEntry(i == last, p.intent.Kind)
		if err != nil {
			return nil, &StageError{Stage: i, Entry: entry, Err: err}
		}

		call, err := p.contract.Invoke(entry, b.metadata, b.indices, b.code, p.intent.Object)
		if err != nil {
			return nil, &StageError{Stage: i, Entry: entry, Err: err}
		}
		calls = append(calls, call)
	}

	return &Plan{Calls: calls}, nil
}

// Plan is the output of Pack(): stage calls in submission order.
// The last call is the only terminal one.
type Plan struct {
	Calls []*StageCall
}

// Len returns the number of stage calls.
func (p *Plan) Len() int {
	return len(p.Calls)
}

// StageCount returns the number of stage calls as a sequence number offset.
func (p *Plan) StageCount() uint64 {
	return uint64(len(p.Calls))
}

// Call returns the call at index i, or nil when out of range.
func (p *Plan) Call(i int) *StageCall {
	if i < 0 || i >= len(p.Calls) {
		return nil
	}
	return p.Calls[i]
}

// Terminal returns the publishing call.
func (p *Plan) Terminal() *StageCall {
	if len(p.Calls) == 0 {
		return nil
	}
	return p.Calls[len(p.Calls)-1]
}

// ForEachCall iterates over the calls in order.
// Return false from fn to stop iteration.
func (p *Plan) ForEachCall(fn func(int, *StageCall) bool) {
	for i, call := range p.Calls {
		if !fn(i, call) {
			return
		}
	}
}
