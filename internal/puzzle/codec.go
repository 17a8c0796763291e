// internal/puzzle/codec.go
//
// Token codec for puzzles.
//
// A token is the compact JSON form of a GameState wrapped in standard base64
// (RFC 4648 alphabet, '=' padding). The token is self-describing: field names
// travel with it, so the browser client can decode it without the server.
//
// Encoding is deterministic: the same GameState always yields the same token.

package puzzle

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncoding is returned when a GameState cannot be serialized.
	ErrEncoding = errors.New("puzzle: encode failed")
	// ErrMalformedToken is returned when a token is not valid base64 JSON.
	ErrMalformedToken = errors.New("puzzle: malformed token")
)

// Encode serializes s to JSON and base64-encodes the result.
func Encode(s GameState) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep '<', '>' and '&' as typed
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	raw := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. Unknown JSON fields are rejected.
// The result is not validated; call Validate if the source is untrusted.
func Decode(token string) (GameState, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return GameState{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var s GameState
	if err := dec.Decode(&s); err != nil {
		return GameState{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if dec.More() {
		return GameState{}, fmt.Errorf("%w: trailing data", ErrMalformedToken)
	}
	return s, nil
}

// IsTokenAlphabet reports whether token is non-empty, padded standard
// base64: only the RFC 4648 alphabet, at most two '=' at the end, and a
// length that is a multiple of four.
func IsTokenAlphabet(token string) bool {
	if token == "" || len(token)%4 != 0 {
		return false
	}
	body := strings.TrimRight(token, "=")
	if body == "" || len(token)-len(body) > 2 {
		return false
	}
	for _, r := range body {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/':
		default:
			return false
		}
	}
	return true
}
