package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// Resource prefixes. Prefixed IDs make it obvious in logs and support tickets
// which table an identifier belongs to.
const (
	PrefixSession    = "ses"
	PrefixInvitation = "inv"
	PrefixChallenge  = "otp"
	PrefixEvent      = "evt"
	PrefixCapture    = "img"
)

const prefixSep = "_"

var (
	// ErrInvalid reports a malformed ULID string.
	ErrInvalid = errors.New("idx: invalid ulid")

	// ErrPrefix reports an ID carrying the wrong resource prefix.
	ErrPrefix = errors.New("idx: unexpected prefix")
)

var (
	globalOnce sync.Once
	global     *generator
)

// generator is a tool to safely generate ULIDs concurrently using a monotonic
// source.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) newAt(t time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

func initGlobal() {
	src := ulid.Monotonic(rand.Reader, 0) // Max Monotonic Window
	global = &generator{entropy: src}
}

// New returns a new lexicographically sortable ULID-based ID using the
// current time in UTC and a monotonic entropy source.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time (UTC), useful for tests or
// constructing time-bounded cursors.
func NewAt(t time.Time) ID {
	globalOnce.Do(initGlobal)
	return ID(global.newAt(t).String())
}

// NewWithPrefix returns a ULID prefixed with a resource tag, e.g.
// "ses_01J9Z3...". Prefixed IDs still sort by creation time within a prefix.
func NewWithPrefix(prefix string) ID {
	return ID(prefix + prefixSep + string(New()))
}

// Parse parses a ULID string into an ID and validates its form.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}

	return ID(s), nil
}

// ParseWithPrefix validates a prefixed ID and checks that it carries the
// expected resource prefix.
func ParseWithPrefix(prefix, s string) (ID, error) {
	s = strings.TrimSpace(s)
	head, tail, ok := strings.Cut(s, prefixSep)
	if !ok {
		return Zero, ErrInvalid
	}
	if head != prefix {
		return Zero, ErrPrefix
	}
	if _, err := Parse(tail); err != nil {
		return Zero, err
	}
	return ID(s), nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Prefix returns the resource prefix, or "" for bare ULIDs.
func (id ID) Prefix() string {
	head, _, ok := strings.Cut(string(id), prefixSep)
	if !ok {
		return ""
	}
	return head
}

// Time extracts the embedded UTC timestamp from the ID.
// If the ID is invalid or zero, it returns the zero time.
func (id ID) Time() time.Time {
	if id.IsZero() {
		return time.Time{}
	}

	raw := string(id)
	if _, tail, ok := strings.Cut(raw, prefixSep); ok {
		raw = tail
	}

	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return time.Time{}
	}

	// ULID time component is in ms since epoch.
	return ulid.Time(u.Time()).UTC()
}
