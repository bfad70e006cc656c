package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec defines how to read and write a specific file format.
type Codec interface {
	// Marshal converts v to bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// DefaultCodecs returns the standard set of codecs keyed by file extension.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		".json": JSONCodec{},
		".yaml": YAMLCodec{},
		".yml":  YAMLCodec{},
	}
}

// Formats lists the storage formats accepted by Config.Format.
func Formats() []string { return []string{"json", "yaml"} }

// FormatExt maps a format name to the extension of its collection files.
func FormatExt(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return ".json", nil
	case "yaml", "yml":
		return ".yaml", nil
	}
	return "", fmt.Errorf("unsupported format %q (want one of %v)", format, Formats())
}

// CodecFor selects the codec matching the extension of path.
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := DefaultCodecs()[ext]; ok {
		return c, nil
	}
	exts := make([]string, 0, 3)
	for k := range DefaultCodecs() {
		exts = append(exts, k)
	}
	slices.Sort(exts)
	return nil, fmt.Errorf("no codec for %q (supported: %v)", path, exts)
}

// --- JSON Codec ---

// JSONCodec reads and writes indented JSON.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Codec ---

// YAMLCodec reads and writes YAML with two-space indentation.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
