package types

import "time"

// Annotation is a volatile note attached to a file path, symbol name, or
// path:line target. Expired annotations (ExpiresAt non-zero and in the
// past) are excluded from reads and swept before every list.
type Annotation struct {
	ID        int64
	Target    string
	Note      string
	SessionID string // "" means unscoped, visible to every session
	CreatedAt time.Time
	ExpiresAt time.Time // zero value means no expiry
}

// Expired reports whether the annotation has outlived its TTL as of now.
func (a *Annotation) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && a.ExpiresAt.Before(now)
}

// WorksetKind distinguishes why a path is in the working set.
type WorksetKind string

const (
	WorksetFocus   WorksetKind = "focus"
	WorksetVisited WorksetKind = "visited"
)

// WorksetEntry records that a path was focused or visited during a
// session, used to re-rank search results.
type WorksetEntry struct {
	Path      string
	Kind      WorksetKind
	SessionID string
	CreatedAt time.Time
}
