package movepkg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/branched-services/go-chunkstage"
)

// DefaultCompiler is the compiler executable looked up on PATH.
const DefaultCompiler = "aptos"

// CompileError is returned when the compiler exits unsuccessfully.
type CompileError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("movepkg: compile failed: %v\n%s", e.Err, e.Output)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// CompilerBuilder compiles a package with the external compiler and reads the
// resulting artifacts. It implements chunkstage.Builder.
type CompilerBuilder struct {
	// Compiler is the executable to run. Default is DefaultCompiler.
	Compiler string

	// PackageDir is the package root holding Move.toml.
	PackageDir string

	// Package is the package name, used to locate build output.
	Package string

	// Named holds addresses passed on every build in addition to those
	// supplied by the caller. Caller values win.
	Named chunkstage.NamedAddresses

	// Order is forwarded to DirReader.
	Order []string

	Logger *zap.Logger
}

// NewCompilerBuilder creates a builder for the package at dir, reading the
// package name from its manifest.
func NewCompilerBuilder(dir string, logger *zap.Logger) (*CompilerBuilder, *Manifest, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompilerBuilder{
		Compiler:   DefaultCompiler,
		PackageDir: dir,
		Package:    m.Package.Name,
		Logger:     logger,
	}, m, nil
}

// Args returns the compiler arguments for the given named addresses.
func (b *CompilerBuilder) Args(named chunkstage.NamedAddresses) []string {
	merged := make(map[string]chunkstage.Address, len(b.Named)+len(named))
	for k, v := range b.Named {
		merged[k] = v
	}
	for k, v := range named {
		merged[k] = v
	}

	args := []string{"move", "compile", "--save-metadata", "--package-dir", b.PackageDir}
	if len(merged) == 0 {
		return args
	}

	pairs := make([]string, 0, len(merged))
	for k, v := range merged {
		pairs = append(pairs, k+"="+v.Hex())
	}
	sort.Strings(pairs)
	return append(args, "--named-addresses", strings.Join(pairs, ","))
}

// Build runs the compiler and reads the package artifacts.
func (b *CompilerBuilder) Build(ctx context.Context, named chunkstage.NamedAddresses) (*chunkstage.Bundle, error) {
	compiler := b.Compiler
	if compiler == "" {
		compiler = DefaultCompiler
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	args := b.Args(named)
	logger.Debug("running compiler", zap.String("compiler", compiler), zap.Strings("args", args))

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, compiler, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return nil, &CompileError{Args: args, Output: out.String(), Err: err}
	}

	reader := DirReader{
		BuildDir: filepath.Join(b.PackageDir, "build"),
		Package:  b.Package,
		Order:    b.Order,
	}
	return reader.Read()
}
