package chunkstage

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// Manifest lists the payload files written by an Emitter.
type Manifest struct {
	Package       string        `json:"package"`
	ObjectAddress *Address      `json:"object_address,omitempty"`
	Files         []EmittedFile `json:"files"`
}

// EmittedFile describes one written stage call payload.
type EmittedFile struct {
	Stage    int        `json:"stage"`
	Path     string     `json:"path"`
	Function FunctionID `json:"function_id"`
	Size     int        `json:"size"`
	Digest   string     `json:"blake3"`
}

// Emitter writes stage call payloads as JSON files into a directory.
type Emitter struct {
	dir    string
	prefix string
}

// NewEmitter creates an Emitter writing <prefix>-stage-NN.json files into dir.
func NewEmitter(dir, prefix string) *Emitter {
	if prefix == "" {
		prefix = "package"
	}
	return &Emitter{dir: dir, prefix: prefix}
}

// StagePath returns the file path for stage i.
func (e *Emitter) StagePath(i int) string {
	return filepath.Join(e.dir, fmt.Sprintf("%s-stage-%02d.json", e.prefix, i))
}

// ManifestPath returns the path of the manifest file.
func (e *Emitter) ManifestPath() string {
	return filepath.Join(e.dir, e.prefix+"-manifest.json")
}

// Emit writes every call of the deployment plan and a manifest listing them.
// When any write fails, files already written by this call are removed.
func (e *Emitter) Emit(d *Deployment) (_ *Manifest, err error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	defer func() {
		if err != nil {
			for _, path := range written {
				_ = os.Remove(path)
			}
		}
	}()

	manifest := &Manifest{
		Package:       e.prefix,
		ObjectAddress: d.ObjectAddress,
		Files:         make([]EmittedFile, 0, d.Plan.Len()),
	}

	for i, call := range d.Plan.Calls {
		data, err := call.MarshalIndent()
		if err != nil {
			return nil, &StageError{Stage: i, Entry: call.Entry(), Err: err}
		}

		path := e.StagePath(i)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, &StageError{Stage: i, Entry: call.Entry(), Err: err}
		}
		written = append(written, path)

		digest := blake3.Sum256(data)
		manifest.Files = append(manifest.Files, EmittedFile{
			Stage:    i,
			Path:     path,
			Function: call.Function(),
			Size:     len(data),
			Digest:   hex.EncodeToString(digest[:]),
		})
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(e.ManifestPath(), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	return manifest, nil
}
