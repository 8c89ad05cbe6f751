// Package cache stores built graph documents so that unchanged inputs do
// not have to be layered and serialized again.
//
// Three backends implement [Cache]:
//   - [FileCache]: snappy-compressed entries under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams regenerating the same datasets
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] and combine a hash of the raw inputs with every
// option that changes the output document.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLDocument is the default lifetime of a cached document. Relationship
// datasets are published monthly, so entries rarely outlive their inputs.
const TTLDocument = 30 * 24 * time.Hour

// DocumentKeyOpts lists the options that influence a generated document.
type DocumentKeyOpts struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	TreeName    string `json:"tree_name,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey returns the key of the document built from inputs
	// (a hash of the raw input files) with opts.
	DocumentKey(inputs string, opts DocumentKeyOpts) string
}

// DefaultKeyer hashes all key components into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(inputs string, opts DocumentKeyOpts) string {
	return hashKey("graph", inputs, opts)
}
