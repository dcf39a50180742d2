package grammar

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadJSON reads tables in JSON format and validates them.
func LoadJSON(r io.Reader) (*Tables, error) {
	t := &Tables{}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("cannot decode JSON tables: %w", err)
	}
	return loaded(t)
}

// LoadYAML reads tables in YAML format and validates them.
func LoadYAML(r io.Reader) (*Tables, error) {
	t := &Tables{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("cannot decode YAML tables: %w", err)
	}
	return loaded(t)
}

// Load reads tables from a file. Files ending in ".yaml" or ".yml" are read
// as YAML, everything else as JSON.
func Load(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	}
	return LoadJSON(f)
}

func loaded(t *Tables) (*Tables, error) {
	if err := t.Validate(); err != nil {
		tracer().Errorf("tables %q rejected: %v", t.Name, err)
		return nil, err
	}
	tracer().Infof("loaded tables %q: %d tokens, %d rules, %d+%d states",
		t.Name, len(t.Tokens), len(t.Rules), t.Automaton.Size(), t.BracketAutomaton.Size())
	return t, nil
}

// WriteJSON writes tables in JSON format, the inverse of LoadJSON.
func (t *Tables) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteYAML writes tables in YAML format, the inverse of LoadYAML.
func (t *Tables) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}
