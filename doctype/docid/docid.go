// Package docid generates and parses GeneratedDocument identifiers of the
// form "{type}_{program_slug}_{iso_date}_{nonce}".
package docid

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and collapses every run of non-alphanumeric characters
// into a single hyphen, trimming leading/trailing hyphens. Used to derive
// the program_slug segment of a doc_id from an arbitrary program name.
func Slug(s string) string {
	lower := strings.ToLower(s)
	slug := slugNonAlnum.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

// New generates a fresh, globally-unique doc_id for the given document type
// and program name, stamped with the given creation time.
//
// nonce is an 8-hex-character suffix taken from a random UUIDv4 rather than
// a monotonic counter, so that two concurrent agents in the same batch
// never collide without needing a shared counter.
func New(t, programName string, createdAt time.Time) string {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s_%s", t, Slug(programName), createdAt.UTC().Format("2006-01-02"), nonce)
}

var pattern = regexp.MustCompile(`^([a-z0-9_]+?)_([a-z0-9-]+)_(\d{4}-\d{2}-\d{2})_([0-9a-f]{8})$`)

// Parsed is the decomposition of a doc_id produced by New.
type Parsed struct {
	Type        string
	ProgramSlug string
	ISODate     string
	Nonce       string
}

// Parse decomposes a doc_id produced by New. It returns ok=false if id does
// not match the documented format; callers must treat that as "not found",
// not a panic.
func Parse(id string) (p Parsed, ok bool) {
	m := pattern.FindStringSubmatch(id)
	if m == nil {
		return Parsed{}, false
	}
	return Parsed{Type: m[1], ProgramSlug: m[2], ISODate: m[3], Nonce: m[4]}, true
}
