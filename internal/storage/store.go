package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// DefaultDir is the default directory of the model artifacts.
	DefaultDir = "models"
)

// Shard creates a new storage implementation for the given directory.
type Shard func(dir string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of a single artifact.
type Key struct {
	Label string `json:"label"`
}

// NewKey creates a key for the given label.
func NewKey(label string) Key {
	return Key{Label: label}
}

// Path returns the file name of the key.
func (k Key) Path() string {
	if strings.HasSuffix(k.Label, ".json") {
		return k.Label
	}
	return fmt.Sprintf("%s.json", k.Label)
}

// Persistence stores and loads json serialisable values.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
