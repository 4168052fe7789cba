package models

import (
	"encoding/json"
	"time"

	"github.com/beanport/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordModel provides common persistence fields for all aggregate records.
// It maps to the domain's RecordMeta, including the version column used for
// optimistic locking.
type RecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	UpdatedBy string    `gorm:"type:varchar(200)"`
	Version   int       `gorm:"not null;default:1"`
}

// ToMeta converts RecordModel to domain RecordMeta
func (m *RecordModel) ToMeta() shared.RecordMeta {
	return shared.RecordMeta{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		UpdatedBy: m.UpdatedBy,
		Version:   m.Version,
	}
}

// FromMeta populates RecordModel from domain RecordMeta
func (m *RecordModel) FromMeta(meta shared.RecordMeta) {
	m.ID = meta.ID
	m.CreatedAt = meta.CreatedAt
	m.UpdatedAt = meta.UpdatedAt
	m.UpdatedBy = meta.UpdatedBy
	m.Version = meta.Version
}

// marshalJSON serializes a nested domain value into a jsonb column.
func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalJSON deserializes a jsonb column into a nested domain value.
// Empty columns leave the target at its zero value.
func unmarshalJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
