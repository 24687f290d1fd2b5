package checkpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/drakos74/free-cover/internal/model"
	"github.com/drakos74/free-cover/internal/net"
	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/drakos74/free-cover/internal/storage"
	"github.com/drakos74/free-cover/internal/storage/file/json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// ModelFile is the file name of the model checkpoint.
	ModelFile = "insurance_model.json"
	// EncodersFile is the file name of the encoder table.
	EncodersFile = "encoders.json"
)

var (
	// ErrNotLoaded is returned when the model artifacts are missing or unreadable.
	ErrNotLoaded = errors.New("model not loaded")

	modelKey    = storage.NewKey(ModelFile)
	encodersKey = storage.NewKey(EncodersFile)
)

// Checkpoint is the persisted model together with its preprocessing parameters.
type Checkpoint struct {
	ID        string                  `json:"id"`
	CreatedAt time.Time               `json:"created_at"`
	InputSize int                     `json:"input_size"`
	Epoch     int                     `json:"epoch"`
	BestLoss  float64                 `json:"best_loss,omitempty"`
	Features  []string                `json:"features"`
	Scaler    preprocess.ScalerParams `json:"scaler"`
	Model     net.State               `json:"model"`
}

// New creates a checkpoint for the network and scaler.
func New(network *net.Network, scaler preprocess.Scaler, features []model.Column) Checkpoint {
	return Checkpoint{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		InputSize: network.InputSize(),
		Features:  model.Names(features),
		Scaler:    scaler.Params(),
		Model:     network.State(),
	}
}

// Artifacts are the loaded components needed for inference.
type Artifacts struct {
	Checkpoint Checkpoint
	Network    *net.Network
	Scaler     preprocess.Scaler
	Encoders   preprocess.Encoders
}

// Save persists the checkpoint.
func Save(p storage.Persistence, c Checkpoint) error {
	if err := p.Store(modelKey, c); err != nil {
		return fmt.Errorf("could not save checkpoint '%s': %w", c.ID, err)
	}
	log.Debug().Str("id", c.ID).Int("epoch", c.Epoch).Msg("saved checkpoint")
	return nil
}

// SaveEncoders persists the encoder table.
func SaveEncoders(p storage.Persistence, enc preprocess.Encoders) error {
	if err := enc.Validate(); err != nil {
		return fmt.Errorf("invalid encoders: %w", err)
	}
	if err := p.Store(encodersKey, enc); err != nil {
		return fmt.Errorf("could not save encoders: %w", err)
	}
	return nil
}

// Load loads and reconstructs the artifacts.
// Both the checkpoint and the encoders need to be present, any failure is reported as ErrNotLoaded.
func Load(p storage.Persistence) (*Artifacts, error) {
	var c Checkpoint
	if err := p.Load(modelKey, &c); err != nil {
		return nil, notLoaded(ModelFile, err)
	}
	var enc preprocess.Encoders
	if err := p.Load(encodersKey, &enc); err != nil {
		return nil, notLoaded(EncodersFile, err)
	}
	if err := enc.Validate(); err != nil {
		return nil, notLoaded(EncodersFile, err)
	}

	network, err := net.FromState(c.Model)
	if err != nil {
		return nil, notLoaded(ModelFile, err)
	}
	if c.InputSize != network.InputSize() {
		return nil, notLoaded(ModelFile, fmt.Errorf("input size %d does not match network %d", c.InputSize, network.InputSize()))
	}
	scaler, err := preprocess.FromParams(c.Scaler)
	if err != nil {
		return nil, notLoaded(ModelFile, err)
	}

	return &Artifacts{
		Checkpoint: c,
		Network:    network,
		Scaler:     scaler,
		Encoders:   enc,
	}, nil
}

// SaveDir persists the checkpoint and encoders into the directory.
func SaveDir(dir string, c Checkpoint, enc preprocess.Encoders) error {
	blob := json.NewJsonBlob(dir, false)
	if err := Save(blob, c); err != nil {
		return err
	}
	return SaveEncoders(blob, enc)
}

// LoadDir loads the artifacts from the directory.
func LoadDir(dir string) (*Artifacts, error) {
	return Load(json.NewJsonBlob(dir, false))
}

// Version identifies the current state of the artifacts in the directory,
// based on the modification time of the files.
func Version(dir string) (string, error) {
	blob := json.NewJsonBlob(dir, false)
	m, err := blob.ModTime(modelKey)
	if err != nil {
		return "", notLoaded(ModelFile, err)
	}
	e, err := blob.ModTime(encodersKey)
	if err != nil {
		return "", notLoaded(EncodersFile, err)
	}
	return fmt.Sprintf("%s|%d|%d", dir, m.UnixNano(), e.UnixNano()), nil
}

func notLoaded(file string, err error) error {
	log.Error().Err(err).Str("file", file).Msg("could not load model artifacts")
	return fmt.Errorf("%s: %w: %w", file, err, ErrNotLoaded)
}
