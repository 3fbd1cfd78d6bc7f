// Package snapshots persists quoted prices in an append-only WAL for
// audit and history.
package snapshots

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/solwatch/solwatch/internal/domain"
)

const (
	// DefaultDir is where price snapshots live unless configured.
	DefaultDir = "./wal/prices"

	segmentThreshold = 5000
	maxSegments      = 20

	priceKeyPrefix = "price_"
)

// WALStore is the append-only price snapshot store.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.Mutex
}

// NewWALStore opens (or creates) the snapshot WAL in dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "price_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: false,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init price snapshot WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one price snapshot.
func (s *WALStore) Append(snap domain.PriceSnapshot) error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}
	if snap.TokenMint == "" {
		return errors.New("snapshot token mint is required")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal price snapshot")
	}

	key := fmt.Sprintf("%s%s", priceKeyPrefix, snap.TokenMint)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// ByMint returns all snapshots for a token in append order.
func (s *WALStore) ByMint(mint string) ([]domain.PriceSnapshot, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var snaps []domain.PriceSnapshot
	for msg := range s.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, priceKeyPrefix+mint) {
			continue
		}
		var snap domain.PriceSnapshot
		if err := json.Unmarshal(msg.Value, &snap); err != nil {
			return nil, errors.Wrap(err, "decode price snapshot")
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
