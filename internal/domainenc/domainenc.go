// Package domainenc parses a flat domain-list file into wire-format DNS
// names: each non-blank line is one dotted domain, converted to
// length-prefixed labels terminated by a zero-length label, reading a
// whole file of names at once and reporting the offending line number on
// a malformed entry.
package domainenc

import (
	"fmt"
	"strings"

	"github.com/nslatency/mig/internal/errors"
)

// MaxLabelLength is the largest number of bytes a single label between dots
// may occupy: the largest value a one-byte length prefix can express. The
// stricter 63-byte label limit of RFC 1035 is not enforced.
const MaxLabelLength = 255

// MaxFileSize bounds how large a domain-list file may be before Parse
// refuses to load it into memory.
const MaxFileSize = 50 * 1024 * 1024

// Set holds the wire-encoded names parsed from a domain-list file. Names is
// the concatenation of every encoded name (each already zero-terminated);
// Offsets has len(Names)+1 entries marking where each name begins and
// where the last one ends, mirroring the Queries/Offsets shape of the
// probe's query batch.
type Set struct {
	Names   []byte
	Offsets []int
}

// Count reports how many names are in the set.
func (s Set) Count() int {
	if len(s.Offsets) == 0 {
		return 0
	}
	return len(s.Offsets) - 1
}

// Name returns the wire-format bytes of the i'th name, including its
// trailing zero-length label.
func (s Set) Name(i int) []byte {
	return s.Names[s.Offsets[i]:s.Offsets[i+1]]
}

// Parse converts the ASCII contents of a domain-list file (one dotted
// domain per line, blank lines ignored) into a Set. A line consisting of a
// domain that starts or ends with '.', contains "..", or has a label
// longer than MaxLabelLength is a ValidationError naming the 1-based line
// number, matching the original tool's get_domains diagnostics.
func Parse(data []byte) (Set, error) {
	if len(data) > MaxFileSize {
		return Set{}, &errors.ResourceError{
			Operation:      "parse domain list",
			RequestedBytes: int64(len(data)),
		}
	}

	var set Set
	set.Offsets = append(set.Offsets, 0)

	line := 1
	for _, raw := range strings.Split(string(data), "\n") {
		text := strings.TrimSuffix(raw, "\r")
		if text != "" {
			encoded, err := encodeLine(text, line)
			if err != nil {
				return Set{}, err
			}
			set.Names = append(set.Names, encoded...)
			set.Offsets = append(set.Offsets, len(set.Names))
		}
		line++
	}

	if set.Count() == 0 {
		return Set{}, &errors.ValidationError{
			Field:   "domains",
			Value:   "",
			Message: "domain list is empty",
		}
	}

	return set, nil
}

// encodeLine encodes one dotted domain name into wire format, reporting
// lineNumber on a malformed entry.
func encodeLine(text string, lineNumber int) ([]byte, error) {
	labels := strings.Split(text, ".")

	encoded := make([]byte, 0, len(text)+2)
	for _, label := range labels {
		if len(label) == 0 {
			return nil, invalidDomain(text, lineNumber)
		}
		if len(label) > MaxLabelLength {
			return nil, invalidDomain(text, lineNumber)
		}

		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}

	return append(encoded, 0), nil
}

func invalidDomain(text string, lineNumber int) error {
	return &errors.ValidationError{
		Field:   "domains",
		Value:   text,
		Message: fmt.Sprintf("invalid domain name at line %d", lineNumber),
	}
}
