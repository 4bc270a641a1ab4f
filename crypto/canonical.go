// crypto/canonical.go
package crypto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp layout used everywhere a time enters canonical JSON: ISO-8601
// UTC with second precision. Cross-party hash agreement depends on it.
const TimeLayout = "2006-01-02T15:04:05Z"

// Now returns the current UTC time truncated to seconds so that
// json.Marshal of a time.Time emits exactly TimeLayout.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// CanonicalJSON serializes v with object keys sorted lexicographically at
// every depth, compact separators, no HTML escaping, and numbers emitted
// verbatim. Equal values produce identical bytes across runs and platforms.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := marshalCompact(v)
	if err != nil {
		return nil, fmt.Errorf("canonical: marshal: %w", err)
	}

	// Round-trip through a generic value: encoding/json sorts map keys on
	// output, and UseNumber keeps numeric literals byte-exact.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonical: decode: %w", err)
	}

	return marshalCompact(generic)
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder appends a newline; canonical form has none.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
