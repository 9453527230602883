// Package movepkg reads Move package manifests and compiled build artifacts.
package movepkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the manifest file name at a package root.
const ManifestFile = "Move.toml"

// Unassigned is the value of a named address bound at compile time.
const Unassigned = "_"

var (
	// ErrNoPackageAddress is returned when no named address is unassigned.
	ErrNoPackageAddress = errors.New("movepkg: no unassigned named address")

	// ErrAmbiguousPackageAddress is returned when several named addresses are unassigned.
	ErrAmbiguousPackageAddress = errors.New("movepkg: more than one unassigned named address")

	// ErrMissingPackageName is returned when the manifest has no package name.
	ErrMissingPackageName = errors.New("movepkg: manifest has no package name")
)

// Manifest is the subset of Move.toml needed to build and locate artifacts.
type Manifest struct {
	Package   PackageSection    `toml:"package"`
	Addresses map[string]string `toml:"addresses"`
}

// PackageSection is the [package] table.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// ReadManifest parses dir/Move.toml.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("movepkg: read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses Move.toml contents.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("movepkg: parse manifest: %w", err)
	}
	if m.Package.Name == "" {
		return nil, ErrMissingPackageName
	}
	return &m, nil
}

// PackageAddressName returns the single named address left unassigned ("_"),
// which is the address the package is published at.
func (m *Manifest) PackageAddressName() (string, error) {
	var names []string
	for name, value := range m.Addresses {
		if value == Unassigned {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	switch len(names) {
	case 0:
		return "", ErrNoPackageAddress
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w: %v", ErrAmbiguousPackageAddress, names)
	}
}
