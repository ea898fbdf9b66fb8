package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string
	DPI    int
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a rendered artifact for the DOT source
	// with hash dotHash.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the DOT hash together with the options. Options that
// differ always yield different keys.
func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	h := sha256.New()
	for _, part := range []string{dotHash, opts.Format, strconv.Itoa(opts.DPI)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "artifact:" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ScopedKeyer prefixes every key of another Keyer. The CLI scopes keys by
// build version so a new release never reads artifacts an older Graphviz
// build produced.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to inner's keys. A nil
// inner means the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dotHash, opts)
}
