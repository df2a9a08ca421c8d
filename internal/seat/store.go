package seat

import (
	"context"
	"encoding/json"
)

// StorageKey is the fixed namespace key the assignment record lives under.
// It matches the deployed storage namespace and must not change.
const StorageKey = "food-locker-seat-storage"

// KV is the narrow durable byte store the assignment record is kept in.
// The whole record is always replaced in one write.
type KV interface {
	Get(ctx context.Context) (value []byte, ok bool, err error)
	Set(ctx context.Context, value []byte) error
	Delete(ctx context.Context) error
}

// Store persists the current seat/locker assignment. Every Set/Clear is
// durable before it returns, so a process restart immediately observes the
// latest assignment.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Get returns the stored assignment, or nil when none is stored. A missing
// or malformed record reads as empty, never as an error.
func (s *Store) Get(ctx context.Context) (*Assignment, error) {
	data, ok, err := s.kv.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, nil // treat corrupt records as empty
	}

	return r.toAssignment(), nil
}

// Set atomically replaces the stored assignment with a.
func (s *Store) Set(ctx context.Context, a Assignment) error {
	data, err := json.Marshal(a.toRecord())
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, data)
}

// SetSeat records a declared seat with no locker, replacing any previous
// assignment. A later locker assignment writes the full record via Set.
func (s *Store) SetSeat(ctx context.Context, seatBlock, seatNumber, zone string) error {
	return s.Set(ctx, Assignment{
		SeatBlock:  seatBlock,
		SeatNumber: seatNumber,
		Zone:       zone,
	})
}

// Clear removes the stored assignment.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx)
}
