package transcript

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoData is returned when no payload was supplied at all.
	ErrNoData = errors.New("no data provided")

	// ErrNotArray is returned when the payload decodes to valid JSON that
	// is not an array of messages.
	ErrNotArray = errors.New("invalid data format: expected an array of messages")
)

// encodings lists accepted base64 variants. Browsers and shell one-liners
// produce standard padded base64, but payloads pasted into URLs often arrive
// URL-safe or with padding stripped.
var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// Decode interprets data as base64(UTF-8(JSON array of Message)) and returns
// the parsed messages in input order.
//
// Failure modes are distinguished for the caller:
//   - empty input: ErrNoData
//   - undecodable base64 or unparseable JSON: a descriptive wrapped error
//   - valid JSON of the wrong shape: ErrNotArray
//
// No per-field validation is performed beyond JSON decoding; missing optional
// fields are left empty.
func Decode(data string) ([]Message, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrNoData
	}

	raw, err := decodeBase64(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("parse payload: %w", errors.New("not valid JSON"))
	}
	if !strings.HasPrefix(text, "[") {
		return nil, ErrNotArray
	}

	var msgs []Message
	if err := json.Unmarshal([]byte(text), &msgs); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return msgs, nil
}

func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range encodings {
		raw, err := enc.DecodeString(s)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
