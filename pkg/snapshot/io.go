package snapshot

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/scene"
)

// Write encodes a scene as an indented JSON snapshot and writes it to w.
// The output can be re-imported with [Read] for round-trip processing.
func Write(s *scene.Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(s)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// Read decodes a JSON snapshot from r.
//
// A document whose top-level structure is unusable is rejected outright
// with [errors.ErrCodeInvalidDocument]; individual missing or malformed
// fields fall back to defaults during [Decode] instead. Read does not
// close r.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode snapshot")
	}
	return &doc, nil
}

// Export writes a scene's snapshot to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Export(s *scene.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResource, err, "create %s", path)
	}
	defer f.Close()
	return Write(s, f)
}

// Import reads a snapshot file at path and returns the decoded seed and
// builder configuration. On any failure the caller's current state is
// untouched; nothing is partially applied.
func Import(path string) (int64, scene.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, scene.Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return 0, scene.Config{}, err
	}
	return Decode(doc)
}
