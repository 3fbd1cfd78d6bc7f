// Package ledger persists executed trades in an append-only WAL.
package ledger

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
	// DefaultDir is where the trade ledger lives unless configured.
	DefaultDir = "./wal/trades"

	segmentThreshold = 1000
	maxSegments      = 100

	tradeKeyPrefix = "trade_"
)

// WALStore is the append-only trade ledger.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.Mutex
}

// NewWALStore opens (or creates) the ledger WAL in dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "trade_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init trade ledger WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one trade record. Records are never rewritten.
func (s *WALStore) Append(record domain.TradeRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("trade ledger is not initialized")
	}
	if record.PlanID == "" {
		return errors.New("trade record plan id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal trade record")
	}

	key := fmt.Sprintf("%s%s_%s", tradeKeyPrefix, record.PlanID, record.Side)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// All returns every trade record in append order.
func (s *WALStore) All() ([]domain.TradeRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("trade ledger is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var records []domain.TradeRecord
	for msg := range s.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, tradeKeyPrefix) {
			continue
		}
		var record domain.TradeRecord
		if err := json.Unmarshal(msg.Value, &record); err != nil {
			return nil, errors.Wrap(err, "decode trade record")
		}
		records = append(records, record)
	}
	return records, nil
}

// ByPlan returns the trade records for one plan in append order.
func (s *WALStore) ByPlan(planID string) ([]domain.TradeRecord, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	var records []domain.TradeRecord
	for _, r := range all {
		if r.PlanID == planID {
			records = append(records, r)
		}
	}
	return records, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("trade ledger is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
