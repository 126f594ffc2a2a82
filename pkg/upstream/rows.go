package upstream

import (
	"bytes"
	"encoding/json"
	"io"

	"go.trai.ch/zerr"
)

// envelope is the common shape of every list response.
type envelope struct {
	Rows json.RawMessage `json:"rows"`
}

// decodeRows reads a list response and unmarshals its rows into dst.
// A missing or falsy rows value leaves dst as an empty slice.
func decodeRows(r io.Reader, dst any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return zerr.Wrap(err, "read body")
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrMalformedBody
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return zerr.Wrap(err, ErrMalformedBody.Error())
	}

	if isFalsy(env.Rows) {
		return json.Unmarshal([]byte("[]"), dst)
	}

	return json.Unmarshal(env.Rows, dst)
}

// isFalsy reports whether a JSON value counts as absent: missing, null,
// false, zero or the empty string.
func isFalsy(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}
