// Package chain provides the chainable intermediate representation of the
// build configuration: a JSON document edited by path expressions and
// convertible to a plain object on demand.
package chain

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Mutation receives the shared chainable builder and applies structural edits
// to it. Mutations compose by successive in-place edits; a later mutation sees
// and may further edit an earlier mutation's changes.
type Mutation func(c *Config)

// Config is a mutable, fluent-style build configuration document. All edit
// methods return the receiver so plugins can chain calls. The first edit error
// is retained and reported by Err; later edits after a failure are no-ops.
type Config struct {
	doc string
	err error
}

// New returns an empty chainable configuration.
func New() *Config {
	return &Config{doc: "{}"}
}

// FromMap seeds a chainable configuration from a plain object.
func FromMap(m map[string]interface{}) (*Config, error) {
	if m == nil {
		return New(), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to seed chainable config: %w", err)
	}
	return &Config{doc: string(data)}, nil
}

// Set assigns a value at a gjson-style path (e.g., "output.dir" or
// "plugins.0.name").
func (c *Config) Set(path string, value interface{}) *Config {
	if c.err != nil {
		return c
	}
	doc, err := sjson.Set(c.doc, path, value)
	if err != nil {
		c.err = fmt.Errorf("chain set %q: %w", path, err)
		return c
	}
	c.doc = doc
	return c
}

// SetRaw assigns a pre-encoded JSON value at a path.
func (c *Config) SetRaw(path, rawJSON string) *Config {
	if c.err != nil {
		return c
	}
	doc, err := sjson.SetRaw(c.doc, path, rawJSON)
	if err != nil {
		c.err = fmt.Errorf("chain set raw %q: %w", path, err)
		return c
	}
	c.doc = doc
	return c
}

// Append adds a value to the end of the array at path, creating the array if
// it does not exist.
func (c *Config) Append(path string, value interface{}) *Config {
	return c.Set(path+".-1", value)
}

// Delete removes the value at path. Deleting a missing path is a no-op.
func (c *Config) Delete(path string) *Config {
	if c.err != nil {
		return c
	}
	doc, err := sjson.Delete(c.doc, path)
	if err != nil {
		c.err = fmt.Errorf("chain delete %q: %w", path, err)
		return c
	}
	c.doc = doc
	return c
}

// Get reads the value at path.
func (c *Config) Get(path string) gjson.Result {
	return gjson.Get(c.doc, path)
}

// Has reports whether a value exists at path.
func (c *Config) Has(path string) bool {
	return c.Get(path).Exists()
}

// Tap invokes fn with the builder, for grouping related edits in a chain.
func (c *Config) Tap(fn func(c *Config)) *Config {
	fn(c)
	return c
}

// JSON returns the current document text.
func (c *Config) JSON() string {
	return c.doc
}

// Fail records an external mutation failure on the builder, so hooks that run
// user code can propagate errors through the chain. Only the first failure is
// retained.
func (c *Config) Fail(err error) *Config {
	if c.err == nil && err != nil {
		c.err = err
	}
	return c
}

// Err returns the first edit error, if any.
func (c *Config) Err() error {
	return c.err
}

// ToMap converts the document to a plain configuration object.
func (c *Config) ToMap() (map[string]interface{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal([]byte(c.doc), &out); err != nil {
		return nil, fmt.Errorf("failed to convert chainable config: %w", err)
	}
	return out, nil
}
