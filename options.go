package chunkstage

import "go.uber.org/zap"

// DefaultChunkSize is the default packing limit per stage call (60 KiB).
const DefaultChunkSize = 60 * 1024

// Sizer measures how many bytes a byte string contributes to a stage call.
type Sizer func([]byte) int

// RawSize counts raw bytes.
func RawSize(b []byte) int {
	return len(b)
}

// HexSize counts the hex digits the byte string occupies in an emitted payload.
func HexSize(b []byte) int {
	return 2 * len(b)
}

// PackOption configures the Pack() operation.
type PackOption func(*packConfig)

// packConfig holds configuration for the Pack() method.
type packConfig struct {
	chunkSize int
	sizer     Sizer
}

// defaultPackConfig returns the default pack configuration.
func defaultPackConfig() *packConfig {
	return &packConfig{
		chunkSize: DefaultChunkSize,
		sizer:     HexSize,
	}
}

// WithChunkSize sets the maximum size of one stage call.
// Default is DefaultChunkSize.
func WithChunkSize(size int) PackOption {
	return func(c *packConfig) {
		c.chunkSize = size
	}
}

// WithSizer sets how payload bytes are measured against the chunk size.
// Default is HexSize.
func WithSizer(sizer Sizer) PackOption {
	return func(c *packConfig) {
		if sizer != nil {
			c.sizer = sizer
		}
	}
}

// PreparerOption configures a Preparer.
type PreparerOption func(*Preparer)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) PreparerOption {
	return func(p *Preparer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSequenceSource sets where the deployer's sequence number is read from.
// Required for object deployments.
func WithSequenceSource(src SequenceSource) PreparerOption {
	return func(p *Preparer) {
		p.sequences = src
	}
}

// WithMultisig marks the deployment as submitted through a multisig account,
// where all stage calls consume a single sequence number.
func WithMultisig(enabled bool) PreparerOption {
	return func(p *Preparer) {
		p.multisig = enabled
	}
}

// WithNamedAddress sets the named address the package is compiled against.
func WithNamedAddress(name string) PreparerOption {
	return func(p *Preparer) {
		p.namedAddress = name
	}
}

// WithPackOptions sets the options used for every Pack() pass.
func WithPackOptions(opts ...PackOption) PreparerOption {
	return func(p *Preparer) {
		p.packOpts = append(p.packOpts, opts...)
	}
}
