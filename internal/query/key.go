package query

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Key identifies one cached query: a resource name followed by every parameter
// that affects the result. Keys are compared structurally, part by part.
type Key []any

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprintf("%+v", p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// parts returns the canonical encoding of each key part.
// Map keys are sorted and integers compacted so equal structures encode identically.
func (k Key) parts() []string {
	out := make([]string, len(k))
	for i, p := range k {
		out[i] = encodePart(p)
	}
	return out
}

// hash joins the part encodings; msgpack values are self-delimiting.
func hash(parts []string) string {
	return strings.Join(parts, "")
}

func encodePart(v any) string {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		panic(fmt.Sprintf("query: key part %v cannot be encoded: %v", v, err))
	}
	return buf.String()
}

func hasPrefix(parts, prefix []string) bool {
	if len(prefix) > len(parts) {
		return false
	}
	for i := range prefix {
		if parts[i] != prefix[i] {
			return false
		}
	}
	return true
}
