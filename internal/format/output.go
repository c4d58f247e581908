// Package format writes the CLI's machine-readable output.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes strict JSON output for CLI commands.
//
// Output stays strict JSON only. Anything addressed to a human reading the
// terminal belongs on stderr or behind a --raw flag, never mixed into the
// payload.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteEnvelope wraps v in the {"data": ...} envelope every nodeboard command
// emits and writes it as JSON.
func WriteEnvelope(w io.Writer, v any, pretty bool) error {
	return WriteJSON(w, map[string]any{"data": v}, pretty)
}
