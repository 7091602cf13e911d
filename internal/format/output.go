// Package format renders CLI payloads as json, edn or yaml.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

const (
	JSON = "json"
	EDN  = "edn"
	YAML = "yaml"
)

// Formats lists the accepted --format values; the first is the default.
var Formats = []string{JSON, EDN, YAML}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case YAML, "yml":
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unknown format: %s (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Valid reports whether format is accepted by Write.
func Valid(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON, EDN, YAML, "yml":
		return true
	}
	return false
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	} else {
		b, err = sonic.ConfigStd.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML uses the yaml tags of the model types; yaml is always block style.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
