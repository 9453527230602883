package chunkstage

import (
	"context"

	"go.uber.org/zap"
)

// NamedAddresses maps Move named addresses to the values substituted at
// compile time.
type NamedAddresses map[string]Address

// Builder produces compiled package artifacts for a set of named addresses.
type Builder interface {
	Build(ctx context.Context, named NamedAddresses) (*Bundle, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, named NamedAddresses) (*Bundle, error)

// Build calls f.
func (f BuilderFunc) Build(ctx context.Context, named NamedAddresses) (*Bundle, error) {
	return f(ctx, named)
}

// SequenceSource looks up an account's current sequence number.
type SequenceSource interface {
	SequenceNumber(ctx context.Context, account Address) (uint64, error)
}

// SequenceFunc adapts a function to the SequenceSource interface.
type SequenceFunc func(ctx context.Context, account Address) (uint64, error)

// SequenceNumber calls f.
func (f SequenceFunc) SequenceNumber(ctx context.Context, account Address) (uint64, error) {
	return f(ctx, account)
}

// Deployment is the result of Prepare().
type Deployment struct {
	Plan *Plan

	// ObjectAddress is the package's target object: derived for object
	// deployments, supplied for upgrades, nil for account deployments.
	ObjectAddress *Address

	// Sequence is the deployer's sequence number at lookup time and
	// SeedSequence the value fed into the object seed. Both are zero unless
	// the deployment creates an object.
	Sequence     uint64
	SeedSequence uint64
}

// Preparer runs the build, derive and pack pipeline for one deployment.
type Preparer struct {
	builder      Builder
	intent       Intent
	deployer     Address
	sequences    SequenceSource
	multisig     bool
	namedAddress string
	packOpts     []PackOption
	logger       *zap.Logger
}

// NewPreparer creates a Preparer for deployer publishing with intent.
func NewPreparer(builder Builder, intent Intent, deployer Address, opts ...PreparerOption) *Preparer {
	p := &Preparer{
		builder:  builder,
		intent:   intent,
		deployer: deployer,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare builds and packs the package for the preparer's intent.
//
// Object deployments build twice: the first pass only counts stage calls,
// which fixes the sequence number the publishing transaction observes and
// therefore the object address; the second pass compiles against that
// address and produces the returned plan.
func (p *Preparer) Prepare(ctx context.Context) (*Deployment, error) {
	if err := p.intent.Validate(); err != nil {
		return nil, err
	}

	log := p.logger.With(
		zap.Stringer("target", p.intent.Kind),
		zap.Stringer("deployer", p.deployer),
		zap.Stringer("staging", p.intent.Staging),
	)

	switch p.intent.Kind {
	case TargetAccount:
		plan, err := p.pass(ctx, 1, p.deployer)
		if err != nil {
			return nil, err
		}
		log.Info("prepared account deployment", zap.Int("stages", plan.Len()))
		return &Deployment{Plan: plan}, nil

	case TargetObjectUpgrade:
		object := p.intent.Object
		plan, err := p.pass(ctx, 1, object)
		if err != nil {
			return nil, err
		}
		log.Info("prepared object upgrade",
			zap.Stringer("object", object),
			zap.Int("stages", plan.Len()),
		)
		return &Deployment{Plan: plan, ObjectAddress: &object}, nil

	default:
		return p.prepareObject(ctx, log)
	}
}

func (p *Preparer) prepareObject(ctx context.Context, log *zap.Logger) (*Deployment, error) {
	if p.sequences == nil {
		return nil, ErrMissingSequenceSource
	}

	// The deployer address stands in for the object address; both are
	// fixed-width so the bytecode size is unchanged.
	estimate, err := p.pass(ctx, 1, p.deployer)
	if err != nil {
		return nil, err
	}
	stages := estimate.StageCount()

	seq, err := p.sequences.SequenceNumber(ctx, p.deployer)
	if err != nil {
		return nil, &LookupError{Address: p.deployer, Err: err}
	}

	seedSeq := SeedSequence(seq, stages, p.multisig)
	object := DeriveObjectAddress(p.deployer, ObjectSeed(seedSeq))

	log.Debug("derived object address",
		zap.Uint64("sequence", seq),
		zap.Uint64("seed_sequence", seedSeq),
		zap.Uint64("stages", stages),
		zap.Bool("multisig", p.multisig),
		zap.Stringer("object", object),
	)

	plan, err := p.pass(ctx, 2, object)
	if err != nil {
		return nil, err
	}
	if !p.multisig && plan.StageCount() != stages {
		log.Error("stage count changed between passes",
			zap.Uint64("first", stages),
			zap.Int("second", plan.Len()),
		)
		return nil, ErrStageCountChanged
	}

	log.Info("prepared object deployment",
		zap.Stringer("object", object),
		zap.Int("stages", plan.Len()),
	)

	return &Deployment{
		Plan:          plan,
		ObjectAddress: &object,
		Sequence:      seq,
		SeedSequence:  seedSeq,
	}, nil
}

// pass builds the package with the named address bound to addr and packs it.
func (p *Preparer) pass(ctx context.Context, n int, addr Address) (*Plan, error) {
	named := NamedAddresses{}
	if p.namedAddress != "" {
		named[p.namedAddress] = addr
	}

	bundle, err := p.builder.Build(ctx, named)
	if err != nil {
		return nil, &BuildError{Pass: n, Err: err}
	}

	p.logger.Debug("built package",
		zap.Int("pass", n),
		zap.Int("modules", bundle.Len()),
		zap.Int("bytes", bundle.Size()),
	)

	return NewPacker(p.intent).Pack(bundle, p.packOpts...)
}
