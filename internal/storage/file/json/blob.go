package json

import (
	"os"
	"path/filepath"
	"time"

	"github.com/drakos74/free-cover/internal/storage"
	"github.com/rs/zerolog/log"
)

// BlobStorage keeps each key as a separate json file in a directory.
type BlobStorage struct {
	path  string
	debug bool
}

// BlobShard creates blob storages for directories.
func BlobShard(debug bool) storage.Shard {
	return func(dir string) (storage.Persistence, error) {
		return NewJsonBlob(dir, debug), nil
	}
}

// NewJsonBlob creates a new blob storage in the given directory.
func NewJsonBlob(dir string, debug bool) *BlobStorage {
	return &BlobStorage{
		path:  dir,
		debug: debug,
	}
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	err := Save(s.path, k.Path(), value)
	if err == nil && s.debug {
		log.Info().Str("path", s.path).Str("file", k.Path()).Msg("stored json file")
	}
	return err
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(s.path, k.Path(), value)
}

// ModTime returns the last modification time of the key file.
func (s BlobStorage) ModTime(k storage.Key) (time.Time, error) {
	info, err := os.Stat(filepath.Join(s.path, k.Path()))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
