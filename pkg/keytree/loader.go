package keytree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Document formats accepted by LoadFile.
const (
	FormatTOML    = "toml"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// FromTOML builds a Tree from a TOML document.
func FromTOML(data []byte, opts ...Option) (*Tree, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keytree: decoding TOML document: %w", err)
	}
	return New(raw, opts...), nil
}

// FromJSON builds a Tree from a JSON document. The top level must be an
// object; arrays and scalars have no keys to resolve against.
func FromJSON(data []byte, opts ...Option) (*Tree, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keytree: decoding JSON document: %w", err)
	}
	return New(raw, opts...), nil
}

// FromMsgpack builds a Tree from a msgpack document. Decoders commonly
// produce map[any]any nodes; key coercion handles those.
func FromMsgpack(data []byte, opts ...Option) (*Tree, error) {
	var raw any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keytree: decoding msgpack document: %w", err)
	}
	switch raw.(type) {
	case map[string]any, map[any]any:
		return FromAny(raw, opts...), nil
	default:
		return nil, fmt.Errorf("keytree: msgpack document top level is %T, want a map", raw)
	}
}

// LoadFile reads a document and builds a Tree, dispatching on the file
// extension: .toml, .json, and .msgpack/.bin are recognized.
func LoadFile(path string, opts ...Option) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keytree: reading document %s: %w", path, err)
	}

	format := formatForExt(filepath.Ext(path))
	log.Debugf("Loading %s document from %s (%d bytes)", format, path, len(data))

	switch format {
	case FormatTOML:
		return FromTOML(data, opts...)
	case FormatJSON:
		return FromJSON(data, opts...)
	case FormatMsgpack:
		return FromMsgpack(data, opts...)
	default:
		return nil, fmt.Errorf("keytree: unsupported document extension %q", filepath.Ext(path))
	}
}

func formatForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".msgpack", ".bin":
		return FormatMsgpack
	default:
		return ""
	}
}
