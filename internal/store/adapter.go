package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/events"
	"github.com/phrazzld/kopio/internal/platform/logger"
)

// Adapter round-trips the planner snapshot through a KeyValueStore.
// It also handles SnapshotChangedEvent so that every committed mutation is
// written back without the service knowing about storage.
type Adapter struct {
	kv     KeyValueStore
	loc    *time.Location
	logger *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLocation sets the time zone slot dates are bucketed in when read and
// written. The default is UTC.
func WithLocation(loc *time.Location) AdapterOption {
	return func(a *Adapter) {
		if loc != nil {
			a.loc = loc
		}
	}
}

var _ events.EventHandler = (*Adapter)(nil)

// NewAdapter creates an Adapter over kv.
func NewAdapter(kv KeyValueStore, logger *slog.Logger, opts ...AdapterOption) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		kv:     kv,
		loc:    time.UTC,
		logger: logger.With(slog.String("component", "store_adapter")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads both collections. A missing key yields an empty collection.
// A value that cannot be decoded is logged and also yields an empty
// collection, so a corrupt entry never prevents start-up.
// Errors from the backend itself are returned.
func (a *Adapter) Load(ctx context.Context) (domain.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	snap := domain.Snapshot{
		Subjects: []domain.Subject{},
		Slots:    []domain.RevisionSlot{},
	}

	raw, err := a.read(ctx, SubjectsKey)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if raw != nil {
		subjects, err := DecodeSubjects(raw)
		if err != nil {
			log.Warn("discarding unreadable subjects",
				slog.String("key", SubjectsKey),
				slog.String("error", err.Error()))
		} else {
			snap.Subjects = subjects
		}
	}

	raw, err = a.read(ctx, RevisionSlotsKey)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if raw != nil {
		slots, err := DecodeSlotsIn(raw, a.loc)
		if err != nil {
			log.Warn("discarding unreadable revision slots",
				slog.String("key", RevisionSlotsKey),
				slog.String("error", err.Error()))
		} else {
			snap.Slots = slots
		}
	}

	log.Debug("loaded planner snapshot",
		slog.Int("subjects", len(snap.Subjects)),
		slog.Int("revision_slots", len(snap.Slots)))
	return snap, nil
}

// read returns nil, nil when key holds no value.
func (a *Adapter) read(ctx context.Context, key string) ([]byte, error) {
	raw, err := a.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewStoreError(key, "get", "failed to read collection", err)
	}
	return raw, nil
}

// SaveSubjects overwrites the stored subject collection.
func (a *Adapter) SaveSubjects(ctx context.Context, subjects []domain.Subject) error {
	data, err := EncodeSubjects(subjects)
	if err != nil {
		return NewStoreError(SubjectsKey, "encode", "failed to encode subjects", err)
	}
	if err := a.kv.Set(ctx, SubjectsKey, data); err != nil {
		return NewStoreError(SubjectsKey, "set", "failed to write subjects", err)
	}
	return nil
}

// SaveSlots overwrites the stored revision slot collection.
func (a *Adapter) SaveSlots(ctx context.Context, slots []domain.RevisionSlot) error {
	data, err := EncodeSlotsIn(slots, a.loc)
	if err != nil {
		return NewStoreError(RevisionSlotsKey, "encode", "failed to encode revision slots", err)
	}
	if err := a.kv.Set(ctx, RevisionSlotsKey, data); err != nil {
		return NewStoreError(RevisionSlotsKey, "set", "failed to write revision slots", err)
	}
	return nil
}

// HandleEvent writes the collections named by the event. When both changed
// and the backend supports it, they are written as one batch.
func (a *Adapter) HandleEvent(ctx context.Context, event *events.SnapshotChangedEvent) error {
	log := logger.FromContextOrDefault(ctx, a.logger).With(
		slog.String("event_id", event.ID.String()),
		slog.String("operation", event.Operation),
	)

	subjects := event.Touches(events.CollectionSubjects)
	slots := event.Touches(events.CollectionRevisionSlots)

	if batch, ok := a.kv.(BatchSetter); ok && subjects && slots {
		entries, err := encodeBoth(event.Snapshot, a.loc)
		if err != nil {
			return err
		}
		if err := batch.SetMany(ctx, entries); err != nil {
			return NewStoreError(SubjectsKey+","+RevisionSlotsKey, "set", "failed to write snapshot", err)
		}
		log.Debug("persisted snapshot", slog.Bool("batched", true))
		return nil
	}

	if subjects {
		if err := a.SaveSubjects(ctx, event.Snapshot.Subjects); err != nil {
			return err
		}
	}
	if slots {
		if err := a.SaveSlots(ctx, event.Snapshot.Slots); err != nil {
			return err
		}
	}
	log.Debug("persisted snapshot",
		slog.Bool("subjects", subjects),
		slog.Bool("revision_slots", slots))
	return nil
}

func encodeBoth(snap domain.Snapshot, loc *time.Location) (map[string][]byte, error) {
	subjects, err := EncodeSubjects(snap.Subjects)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subjects: %w", err)
	}
	slots, err := EncodeSlotsIn(snap.Slots, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode revision slots: %w", err)
	}
	return map[string][]byte{
		SubjectsKey:      subjects,
		RevisionSlotsKey: slots,
	}, nil
}
