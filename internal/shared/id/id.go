// Package id provides centralized ID generation for the widget host.
//
// Widget identifiers double as correlation tokens on every cross-boundary
// message, so they must be unique among live widgets and not guessable by
// content on the far side of the isolation boundary. ULIDs from crypto/rand
// entropy give both properties, plus lexicographic sortability for log
// spelunking. Type-specific prefixes (wgt_*, pg_*) keep logs readable and
// prevent cross-domain ID misuse at compile time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// WidgetID identifies one widget instance for its whole lifetime. It is the
// sole registry key and the correlation token on cross-boundary messages.
type WidgetID string

// PageID identifies one loaded host page.
type PageID string

const (
	WidgetPrefix = "wgt"
	PagePrefix   = "pg"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator backed by crypto/rand.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator with secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewWidgetID generates a fresh widget identifier.
func NewWidgetID() WidgetID {
	return WidgetID(Default().GenerateWithPrefix(WidgetPrefix))
}

// NewPageID generates a fresh page identifier.
func NewPageID() PageID {
	return PageID(Default().GenerateWithPrefix(PagePrefix))
}

func (id WidgetID) String() string { return string(id) }
func (id PageID) String() string   { return string(id) }

// IsValid checks if an ID string is a valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID string.
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}
