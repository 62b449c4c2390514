package creative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/adforge/pkg/errors"
)

// MarshalLayout encodes l as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	l = withDecorations(l)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes and validates a JSON layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	return finish(l)
}

// MarshalLayoutYAML encodes l as YAML.
func MarshalLayoutYAML(l Layout) ([]byte, error) {
	l = withDecorations(l)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalLayoutYAML decodes and validates a YAML layout.
func UnmarshalLayoutYAML(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	return finish(l)
}

// ReadLayoutFile reads a layout from path. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	if isYAML(path) {
		return UnmarshalLayoutYAML(data)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes l to path, choosing the codec like [ReadLayoutFile].
func WriteLayoutFile(path string, l Layout) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = MarshalLayoutYAML(l)
	} else {
		data, err = MarshalLayout(l)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// withDecorations makes sure an empty list encodes as [] rather than null.
func withDecorations(l Layout) Layout {
	if l.Decorations == nil {
		l.Decorations = []Decoration{}
	}
	return l
}

func finish(l Layout) (Layout, error) {
	l = withDecorations(l)
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
