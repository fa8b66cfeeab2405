package decision

import (
	"strings"
	"sync"
)

// DefaultGroundTokens are the ground/safe label tokens seeded into a fresh
// catalog. Model labels vary per deployment, so the set is data, not an enum;
// Korean tokens cover the stock model's label names.
var DefaultGroundTokens = []string{
	"ground",
	"floor",
	"flat",
	"safe",
	"평지",
	"바닥",
}

// Catalog is the canonical ground/safe label classification table. A label is
// ground when any token is a case-insensitive substring of it. The catalog is
// safe for concurrent use; the frame loop reads it while the label API may
// replace the token set.
type Catalog struct {
	mu     sync.RWMutex
	tokens []string
}

// NewCatalog creates a catalog with the given ground tokens. Tokens are
// lowercased once at construction; empty tokens are dropped so a blank row
// can never match every label.
func NewCatalog(tokens []string) *Catalog {
	c := &Catalog{}
	c.SetTokens(tokens)
	return c
}

// DefaultCatalog returns a catalog seeded with DefaultGroundTokens.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultGroundTokens)
}

// SetTokens replaces the ground token set.
func (c *Catalog) SetTokens(tokens []string) {
	normalized := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		normalized = append(normalized, tok)
	}

	c.mu.Lock()
	c.tokens = normalized
	c.mu.Unlock()
}

// Tokens returns a copy of the current ground token set.
func (c *Catalog) Tokens() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.tokens...)
}

// IsGround reports whether the label matches the ground/safe token set.
func (c *Catalog) IsGround(label string) bool {
	if label == "" {
		return false
	}
	lower := strings.ToLower(label)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, tok := range c.tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
