// Package store keeps the ordered appointment list and mirrors it, in full,
// into a single key-value blob after every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"turnero/internal/queue/models"
	"turnero/pkg/platform/sentinel"
)

// DefaultKey is the blob key holding the serialized queue.
const DefaultKey = "turnos"

// corruptSuffix names the key a malformed blob is copied to before the store
// falls back to empty.
const corruptSuffix = ".corrupt"

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks BlobStore

// BlobStore is the persistence the store needs; every blob backend satisfies it.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// AppointmentStore is the ordered appointment sequence plus the id counter.
// It is not safe for concurrent use; callers serialize access.
type AppointmentStore struct {
	blobs  BlobStore
	key    string
	logger *slog.Logger

	items  []models.Appointment
	nextID int
}

type Option func(*AppointmentStore)

func WithKey(key string) Option {
	return func(s *AppointmentStore) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *AppointmentStore) {
		s.logger = logger
	}
}

// Hydrate loads the persisted list. A missing blob yields an empty store. A
// malformed blob is quarantined under <key>.corrupt and also yields an empty
// store. Any other backend failure is returned.
func Hydrate(ctx context.Context, blobs BlobStore, opts ...Option) (*AppointmentStore, error) {
	s := &AppointmentStore{
		blobs:  blobs,
		key:    DefaultKey,
		items:  []models.Appointment{},
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	raw, err := blobs.Get(ctx, s.key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}

	var items []models.Appointment
	if err := json.Unmarshal(raw, &items); err != nil {
		s.quarantine(ctx, raw, err)
		return s, nil
	}
	if items != nil {
		s.items = items
	}
	s.nextID = s.MaxID() + 1
	return s, nil
}

func (s *AppointmentStore) quarantine(ctx context.Context, raw []byte, cause error) {
	corruptKey := s.key + corruptSuffix
	s.logger.WarnContext(ctx, "persisted queue is malformed, starting empty",
		"key", s.key,
		"quarantine_key", corruptKey,
		"bytes", len(raw),
		"error", cause,
	)
	if err := s.blobs.Put(ctx, corruptKey, raw); err != nil {
		s.logger.ErrorContext(ctx, "failed to quarantine malformed queue",
			"quarantine_key", corruptKey,
			"error", err,
		)
	}
}

// Persist overwrites the blob with the whole ordered list.
func (s *AppointmentStore) Persist(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	if err := s.blobs.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// NextID returns the counter and advances it. Ids are never reused.
func (s *AppointmentStore) NextID() int {
	id := s.nextID
	s.nextID++
	return id
}

// PeekID returns the id the next NextID call will hand out.
func (s *AppointmentStore) PeekID() int { return s.nextID }

// Append adds a at the end of the queue.
func (s *AppointmentStore) Append(a models.Appointment) {
	s.items = append(s.items, a)
}

// Remove deletes the appointment with the given id, keeping the order of the
// rest.
func (s *AppointmentStore) Remove(id int) (models.Appointment, bool) {
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return a, true
		}
	}
	return models.Appointment{}, false
}

// Restore puts a back at position i. Used to undo a Remove whose persist failed.
func (s *AppointmentStore) Restore(i int, a models.Appointment) {
	if i < 0 || i > len(s.items) {
		i = len(s.items)
	}
	s.items = append(s.items[:i:i], append([]models.Appointment{a}, s.items[i:]...)...)
}

// IndexOf returns the position of id, or -1.
func (s *AppointmentStore) IndexOf(id int) int {
	for i, a := range s.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy of the queue in insertion order.
func (s *AppointmentStore) Snapshot() []models.Appointment {
	out := make([]models.Appointment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *AppointmentStore) Len() int { return len(s.items) }

// MaxID is the largest id in the queue, 0 when empty.
func (s *AppointmentStore) MaxID() int {
	maxID := 0
	for _, a := range s.items {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return maxID
}

// Key is the blob key the queue persists to.
func (s *AppointmentStore) Key() string { return s.key }
