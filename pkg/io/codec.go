package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Codec names a definition file encoding.
type Codec string

const (
	CodecJSON Codec = "json"
	CodecTOML Codec = "toml"
	CodecYAML Codec = "yaml"
)

// Codecs returns the supported encodings.
func Codecs() []Codec {
	return []Codec{CodecJSON, CodecTOML, CodecYAML}
}

// ParseCodec accepts a codec name ("yml" is an alias for yaml).
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return CodecJSON, nil
	case "toml":
		return CodecTOML, nil
	case "yaml", "yml":
		return CodecYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported definition format: %q (use json, toml or yaml)", s)
}

// CodecFor picks the codec from the extension of path.
func CodecFor(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errs.New(errs.ErrCodeInvalidFormat, "cannot infer definition format of %s: no file extension", path)
	}
	return ParseCodec(ext)
}

// Decode reads a document from r. Unknown fields are rejected so that
// misspelled keys do not silently disappear.
func Decode(r io.Reader, codec Codec) (*Document, error) {
	var doc Document
	switch codec {
	case CodecJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode json")
		}
	case CodecTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidDefinition, "decode toml: unknown key %q", undecoded[0].String())
		}
	case CodecYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errs.New(errs.ErrCodeInvalidDefinition, "decode yaml: empty document")
			}
			return nil, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode yaml")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported definition format: %q", codec)
	}
	return &doc, nil
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *Document, codec Codec) error {
	switch codec {
	case CodecJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case CodecTOML:
		return toml.NewEncoder(w).Encode(doc)
	case CodecYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unsupported definition format: %q", codec)
}

// Load reads a document from path, choosing the codec by extension.
func Load(path string) (*Document, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "definition file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	doc, err := Decode(f, codec)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return doc, nil
}

// LoadDiagrams loads path and builds every diagram it declares.
func LoadDiagrams(path string) ([]*diagram.Diagram, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return BuildAll(doc)
}
