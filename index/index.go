// Package index provides the lookup backends the linking tasks query: a
// mention index (surface form to entity with link frequency), a property
// index (entity to literal-valued properties) and a class index (header
// label to class).
//
// Backends are loaded once and are read-only afterwards, so one instance can
// be shared by every worker without locking. Query failures are reported as
// errors.ErrBackendUnavailable.
package index

// Candidate is one entity a mention may refer to.
type Candidate struct {
	EntityURI string
	Frequency int
	// Mention is the index key that produced the candidate.
	Mention string
	// Similarity is 1 for exact lookups.
	Similarity float64
}

// Property is one literal-valued property of an entity.
type Property struct {
	PropertyURI  string
	LiteralType  string
	LiteralValue string
}

// MentionIndex maps normalized mentions to candidate entities. Both methods
// expect a mention already passed through NormalizeMention.
type MentionIndex interface {
	Lookup(mention string) ([]Candidate, error)
	Similar(mention string, cutoff float64) ([]Candidate, error)
}

// PropertyIndex maps entity URIs to their literal properties.
type PropertyIndex interface {
	Properties(entityURI string) ([]Property, error)
}

// ClassIndex maps lower-cased header labels to class URIs.
type ClassIndex interface {
	Class(label string) (string, bool, error)
}

// Default URI prefixes for bare names in index files.
const (
	EntityPrefix   = "dbr"
	PropertyPrefix = "dbo"
	ClassPrefix    = "dbo"
)

// lengthWindow returns the key lengths that can reach cutoff similarity with
// a mention of n runes.
func lengthWindow(n int, cutoff float64) (lo, hi int) {
	if cutoff <= 0 {
		return 0, int(^uint(0) >> 1)
	}
	lo = int(cutoff * float64(n))
	if float64(lo) < cutoff*float64(n) {
		lo++
	}
	hi = int(float64(n) / cutoff)
	return lo, hi
}
