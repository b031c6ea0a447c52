package ports

import "errors"

// ErrMetadataNotFound is returned by MetadataLoader implementations when the
// requested metadata file does not exist. Callers that treat a dependency as
// optional match on this error and swallow it; any other error kind is a real
// failure and must not be masked.
var ErrMetadataNotFound = errors.New("metadata file not found")

// MetadataLoader loads parsed JSON package metadata relative to a base
// directory. It is used to obtain plugin manifests and, opportunistically, the
// version of locally installed tooling.
type MetadataLoader interface {
	// Load reads and parses the JSON file at relPath, resolved against the
	// loader's base directory. A missing file yields ErrMetadataNotFound.
	Load(relPath string) (map[string]interface{}, error)

	// DependencyVersion returns the declared version of an installed
	// dependency package, or ErrMetadataNotFound if it is not installed.
	DependencyVersion(name string) (string, error)
}
