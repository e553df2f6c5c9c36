package revolver

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/devitocodes/gorevolve/pkg/revolve"
	"github.com/devitocodes/gorevolve/pkg/revolve/config"
	"github.com/devitocodes/gorevolve/pkg/revolve/storage"
)

// FromSettings builds a revolver from typed configuration, wiring up
// the storage backend it names. Additional options are applied after
// the settings-derived ones, so they win on conflict.
func FromSettings(state State, fwd, rev Operator, s config.Settings, opts ...Option) (*Revolver, error) {
	if s.Steps < 1 {
		return nil, ErrTooFewSteps
	}
	snaps := s.Snaps
	if snaps <= 0 {
		snaps = revolve.Adjust(s.Steps)
		if snaps < 1 {
			snaps = 1
		}
	}

	var store storage.Store
	switch s.Storage {
	case config.StorageMemory, "":
		store = storage.NewMemoryStore(snaps)
	case config.StorageSQLite:
		sq, err := storage.NewSQLiteStore(s.StoragePath, snaps)
		if err != nil {
			return nil, err
		}
		store = sq
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", s.Storage)
	}
	if s.Compress {
		cs, err := storage.NewCompressedStore(store, zstd.SpeedDefault)
		if err != nil {
			store.Close()
			return nil, err
		}
		store = cs
	}

	all := append([]Option{WithSnaps(snaps), WithStore(store)}, opts...)
	return New(state, fwd, rev, s.Steps, all...)
}
