package movepkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/branched-services/go-chunkstage"
)

const (
	// MetadataFile is the serialized package metadata written with --save-metadata.
	MetadataFile = "package-metadata.bcs"

	// ModulesDir holds one .mv file per compiled module.
	ModulesDir = "bytecode_modules"

	// ModuleExt is the compiled module file extension.
	ModuleExt = ".mv"
)

var (
	// ErrNoModules is returned when the build directory holds no compiled modules.
	ErrNoModules = errors.New("movepkg: no compiled modules")

	// ErrModuleMismatch is returned when the package metadata and the
	// compiled module files list different modules.
	ErrModuleMismatch = errors.New("movepkg: package metadata and compiled modules differ")
)

// DirReader reads the artifacts of one compiled package.
type DirReader struct {
	// BuildDir is the compiler output directory, usually <package>/build.
	BuildDir string

	// Package is the package name from the manifest.
	Package string

	// Order lists module names in publishing order. Empty means the order
	// recorded in the package metadata.
	Order []string
}

// Dir returns the package's artifact directory.
func (r DirReader) Dir() string {
	return filepath.Join(r.BuildDir, r.Package)
}

// Read loads metadata and modules into a Bundle.
func (r DirReader) Read() (*chunkstage.Bundle, error) {
	metadata, err := os.ReadFile(filepath.Join(r.Dir(), MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("movepkg: read metadata: %w", err)
	}

	names := r.Order
	if len(names) == 0 {
		if names, err = r.metadataOrder(metadata); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoModules, r.Dir())
	}

	modules := make([][]byte, 0, len(names))
	for _, name := range names {
		code, err := os.ReadFile(r.modulePath(name))
		if err != nil {
			return nil, fmt.Errorf("movepkg: read module %s: %w", name, err)
		}
		modules = append(modules, code)
	}

	return chunkstage.NewBundle(metadata, modules)
}

// ModuleNames lists compiled modules in lexical order. Dependency modules
// under nested directories are not included.
func (r DirReader) ModuleNames() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.Dir(), ModulesDir))
	if err != nil {
		return nil, fmt.Errorf("movepkg: list modules: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ModuleExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ModuleExt))
	}
	sort.Strings(names)
	return names, nil
}

// metadataOrder returns the module order from the package metadata after
// checking it names exactly the compiled module files.
func (r DirReader) metadataOrder(metadata []byte) ([]string, error) {
	meta, err := ParsePackageMetadata(metadata)
	if err != nil {
		return nil, err
	}
	onDisk, err := r.ModuleNames()
	if err != nil {
		return nil, err
	}

	listed := make(map[string]bool, len(meta.Modules))
	for _, name := range meta.Modules {
		listed[name] = true
	}
	if len(listed) != len(meta.Modules) {
		return nil, fmt.Errorf("%w: duplicate module in metadata %v", ErrModuleMismatch, meta.Modules)
	}
	if len(onDisk) != len(listed) {
		return nil, fmt.Errorf("%w: metadata %v, files %v", ErrModuleMismatch, meta.Modules, onDisk)
	}
	for _, name := range onDisk {
		if !listed[name] {
			return nil, fmt.Errorf("%w: metadata %v, files %v", ErrModuleMismatch, meta.Modules, onDisk)
		}
	}
	return meta.Modules, nil
}

func (r DirReader) modulePath(name string) string {
	return filepath.Join(r.Dir(), ModulesDir, name+ModuleExt)
}
