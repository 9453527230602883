package movepkg

import (
	"fmt"

	"github.com/branched-services/go-chunkstage"
)

// PackageMetadata is the leading part of the on-chain package metadata saved
// by the compiler. Modules lists module names in publishing order, which is
// the order the compiler resolved from module dependencies.
type PackageMetadata struct {
	Name          string
	UpgradePolicy uint8
	UpgradeNumber uint64
	SourceDigest  string
	Modules       []string
}

// ParsePackageMetadata decodes package metadata up to and including the
// module list. Dependencies and extensions that follow are not read.
func ParsePackageMetadata(data []byte) (*PackageMetadata, error) {
	d := chunkstage.NewBCSDecoder(data)
	m := &PackageMetadata{}

	var err error
	if m.Name, err = d.ReadString(); err != nil {
		return nil, metadataError("name", err)
	}
	if m.UpgradePolicy, err = d.ReadU8(); err != nil {
		return nil, metadataError("upgrade_policy", err)
	}
	if m.UpgradeNumber, err = d.ReadU64(); err != nil {
		return nil, metadataError("upgrade_number", err)
	}
	if m.SourceDigest, err = d.ReadString(); err != nil {
		return nil, metadataError("source_digest", err)
	}
	if _, err = d.ReadBytes(); err != nil {
		return nil, metadataError("manifest", err)
	}

	count, err := d.ReadULEB128()
	if err != nil {
		return nil, metadataError("modules", err)
	}
	if count > uint64(d.Remaining()) {
		return nil, metadataError("modules", fmt.Errorf("%w: %d modules in %d bytes", chunkstage.ErrMalformedBCS, count, d.Remaining()))
	}

	m.Modules = make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		name, err := readModule(d)
		if err != nil {
			return nil, metadataError(fmt.Sprintf("module %d", i), err)
		}
		m.Modules = append(m.Modules, name)
	}
	return m, nil
}

// readModule reads one module entry and returns its name. Source and source
// map are skipped.
func readModule(d *chunkstage.BCSDecoder) (string, error) {
	name, err := d.ReadString()
	if err != nil {
		return "", err
	}
	if _, err := d.ReadBytes(); err != nil { // source
		return "", err
	}
	if _, err := d.ReadBytes(); err != nil { // source_map
		return "", err
	}

	// extension: Option<Any{type_name: String, data: vector<u8>}>
	tag, err := d.ReadU8()
	if err != nil {
		return "", err
	}
	switch tag {
	case 0:
	case 1:
		if _, err := d.ReadString(); err != nil {
			return "", err
		}
		if _, err := d.ReadBytes(); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: option tag %d", chunkstage.ErrMalformedBCS, tag)
	}
	return name, nil
}

func metadataError(field string, err error) error {
	return fmt.Errorf("movepkg: package metadata %s: %w", field, err)
}
