package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/notesload/internal/model"
)

// File-backed note source. One document holding a top-level array of
// note objects, read once per run. .yaml/.yml files are accepted too.

// Load reads the notes at path and returns them in file order.
// A missing file is an error: without data there is nothing to do.
func Load(path string) ([]model.Note, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var notes []model.Note
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		notes, err = decodeYAML(b)
	default:
		notes, err = decodeJSON(b)
	}
	if err != nil {
		return nil, err
	}

	for i, n := range notes {
		if n == nil {
			return nil, fmt.Errorf("record %d: not an object", i+1)
		}
		if _, err := json.Marshal(n); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return notes, nil
}

func decodeJSON(b []byte) ([]model.Note, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	// keep numbers as written so they are forwarded unchanged
	dec.UseNumber()

	var notes []model.Note
	if err := dec.Decode(&notes); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("json unmarshal: trailing data after notes array")
	}
	if notes == nil {
		return nil, fmt.Errorf("json unmarshal: expected an array of notes, got null")
	}
	return notes, nil
}

func decodeYAML(b []byte) ([]model.Note, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml unmarshal: empty document")
		}
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml unmarshal: multiple documents")
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("yaml unmarshal: expected a sequence of notes")
	}

	root := doc.Content[0]
	keepTimestampText(root)
	notes := []model.Note{}
	if err := root.Decode(&notes); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return notes, nil
}

// keepTimestampText retags unquoted dates as strings so "due: 2024-01-02"
// is sent the way it was written, not as a time.Time.
func keepTimestampText(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		keepTimestampText(c)
	}
}
