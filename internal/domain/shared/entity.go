package shared

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time to the domain. It is injected rather than
// read from the system so expiry, overdue and rush-delivery logic is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a Clock pinned to a single instant.
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// IDGenerator produces identities for new records.
type IDGenerator interface {
	NewID() uuid.UUID
}

// UUIDGenerator is the production IDGenerator backed by random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID.
func (UUIDGenerator) NewID() uuid.UUID {
	return uuid.New()
}

// Stamp identifies when and by whom a record was created or changed.
// Every mutation takes a Stamp; records never read the clock themselves.
type Stamp struct {
	At time.Time
	By string
}

// NewStamp builds a Stamp from an injected clock and an actor reference.
func NewStamp(clock Clock, actor string) Stamp {
	return Stamp{At: clock.Now(), By: actor}
}

// RecordMeta provides identity and audit fields common to all records.
type RecordMeta struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	UpdatedBy string
	Version   int
}

// NewRecordMeta creates metadata for a freshly constructed record.
func NewRecordMeta(gen IDGenerator, stamp Stamp) RecordMeta {
	return RecordMeta{
		ID:        gen.NewID(),
		CreatedAt: stamp.At,
		UpdatedAt: stamp.At,
		UpdatedBy: stamp.By,
		Version:   1,
	}
}

// Touched returns a copy of the metadata with the update audit fields set and
// the version incremented. Records are immutable values, so mutations build a
// new record around the touched metadata instead of writing in place.
func (m RecordMeta) Touched(stamp Stamp) RecordMeta {
	m.UpdatedAt = stamp.At
	m.UpdatedBy = stamp.By
	m.Version++
	return m
}

// GetID returns the record ID.
func (m RecordMeta) GetID() uuid.UUID {
	return m.ID
}

// GetCreatedAt returns the creation timestamp.
func (m RecordMeta) GetCreatedAt() time.Time {
	return m.CreatedAt
}

// GetUpdatedAt returns the last update timestamp.
func (m RecordMeta) GetUpdatedAt() time.Time {
	return m.UpdatedAt
}

// GetVersion returns the record version used for optimistic locking.
func (m RecordMeta) GetVersion() int {
	return m.Version
}
