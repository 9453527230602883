package chunkstage

import (
	"fmt"
	"strings"
)

// TargetKind selects where the package is published.
type TargetKind uint8

const (
	// TargetAccount publishes under the deployer's own account.
	TargetAccount TargetKind = iota

	// TargetObjectCreate publishes into a freshly derived object.
	TargetObjectCreate

	// TargetObjectUpgrade upgrades the code held by an existing object.
	TargetObjectUpgrade
)

var targetNames = map[TargetKind]string{
	TargetAccount:       "account",
	TargetObjectCreate:  "object",
	TargetObjectUpgrade: "upgrade",
}

// String returns the short name of the target kind.
func (k TargetKind) String() string {
	if name, ok := targetNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TargetKind(%d)", uint8(k))
}

// ParseTargetKind parses "account", "object" or "upgrade".
func ParseTargetKind(s string) (TargetKind, error) {
	for kind, name := range targetNames {
		if strings.EqualFold(s, name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// Entry is one of the staging contract's entry functions.
type Entry uint8

const (
	// EntryStageChunk stages a chunk without publishing.
	EntryStageChunk Entry = iota

	// EntryPublishToAccount stages the last chunk and publishes to the sender's account.
	EntryPublishToAccount

	// EntryPublishToObject stages the last chunk and publishes into a new object.
	EntryPublishToObject

	// EntryUpgradeObject stages the last chunk and upgrades an existing object's code.
	EntryUpgradeObject
)

// StagingModule is the module name of the staging contract.
const StagingModule = "large_packages"

var entryFunctions = [...]string{
	EntryStageChunk:       "stage_code_chunk",
	EntryPublishToAccount: "stage_code_chunk_and_publish_to_account",
	EntryPublishToObject:  "stage_code_chunk_and_publish_to_object",
	EntryUpgradeObject:    "stage_code_chunk_and_upgrade_object_code",
}

// ResolveEntry picks the entry function for a batch.
// Every batch but the last stages only; the last one publishes according
// to the target kind.
func ResolveEntry(terminal bool, kind TargetKind) (Entry, error) {
	if !terminal {
		if _, ok := targetNames[kind]; !ok {
			return 0, fmt.Errorf("%w: %v", ErrUnknownTarget, kind)
		}
		return EntryStageChunk, nil
	}

	switch kind {
	case TargetAccount:
		return EntryPublishToAccount, nil
	case TargetObjectCreate:
		return EntryPublishToObject, nil
	case TargetObjectUpgrade:
		return EntryUpgradeObject, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownTarget, kind)
	}
}

// Function returns the entry function name.
func (e Entry) Function() string {
	if int(e) < len(entryFunctions) {
		return entryFunctions[e]
	}
	return ""
}

// String implements fmt.Stringer.
func (e Entry) String() string {
	if fn := e.Function(); fn != "" {
		return fn
	}
	return fmt.Sprintf("Entry(%d)", uint8(e))
}

// IsTerminal reports whether the entry publishes or upgrades the package.
func (e Entry) IsTerminal() bool {
	return e != EntryStageChunk
}

// ArgCount returns how many arguments the entry takes.
func (e Entry) ArgCount() int {
	if e == EntryUpgradeObject {
		return 4
	}
	return 3
}
