package chunkstage

import "math"

// MaxModules is the number of modules addressable by a u16 module index.
const MaxModules = math.MaxUint16 + 1

// Bundle is the compiled output of one package: a metadata blob and the
// module bytecode in the order the staging contract reassembles it.
// A Bundle is not modified after NewBundle returns.
type Bundle struct {
	metadata []byte
	modules  [][]byte
}

// NewBundle validates and wraps compiled package artifacts.
// Metadata must be non-nil (it may be empty). Module order is preserved.
func NewBundle(metadata []byte, modules [][]byte) (*Bundle, error) {
	if metadata == nil {
		return nil, &BundleError{Module: -1, Reason: "missing package metadata"}
	}
	if len(modules) > MaxModules {
		return nil, &BundleError{Module: -1, Reason: "too many modules for u16 indices"}
	}
	for i, code := range modules {
		if code == nil {
			return nil, &BundleError{Module: i, Reason: "missing bytecode"}
		}
	}

	mods := make([][]byte, len(modules))
	copy(mods, modules)

	return &Bundle{
		metadata: metadata,
		modules:  mods,
	}, nil
}

// MustBundle is like NewBundle but panics on error.
func MustBundle(metadata []byte, modules [][]byte) *Bundle {
	b, err := NewBundle(metadata, modules)
	if err != nil {
		panic(err)
	}
	return b
}

// Metadata returns the package metadata blob.
func (b *Bundle) Metadata() []byte {
	return b.metadata
}

// Len returns the number of modules.
func (b *Bundle) Len() int {
	return len(b.modules)
}

// Module returns the bytecode of the module at index i.
func (b *Bundle) Module(i int) []byte {
	if i < 0 || i >= len(b.modules) {
		return nil
	}
	return b.modules[i]
}

// Size returns the raw byte size of the metadata plus all modules.
func (b *Bundle) Size() int {
	n := len(b.metadata)
	for _, code := range b.modules {
		n += len(code)
	}
	return n
}
