package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressedStore wraps another Store, compressing snapshot data with
// zstd on save and decompressing on load. Simulation states are often
// highly compressible, so this trades a little CPU per shot for a much
// smaller footprint in the inner store.
type CompressedStore struct {
	inner Store
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewCompressedStore wraps inner with zstd compression at the given
// level (use zstd.SpeedDefault when in doubt).
func NewCompressedStore(inner Store, level zstd.EncoderLevel) (*CompressedStore, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &CompressedStore{inner: inner, enc: enc, dec: dec}, nil
}

// Save implements Store.
func (c *CompressedStore) Save(slot, step int, data []byte) error {
	return c.inner.Save(slot, step, c.enc.EncodeAll(data, nil))
}

// Load implements Store.
func (c *CompressedStore) Load(slot int) ([]byte, int, error) {
	compressed, step, err := c.inner.Load(slot)
	if err != nil {
		return nil, 0, err
	}
	data, err := c.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("decompress snapshot: %w", err)
	}
	return data, step, nil
}

// List implements Store. Sizes reflect the compressed payloads.
func (c *CompressedStore) List() ([]Info, error) { return c.inner.List() }

// Slots implements Store.
func (c *CompressedStore) Slots() int { return c.inner.Slots() }

// Close implements Store and closes the inner store.
func (c *CompressedStore) Close() error {
	err := c.enc.Close()
	c.dec.Close()
	if ierr := c.inner.Close(); ierr != nil {
		return ierr
	}
	return err
}
