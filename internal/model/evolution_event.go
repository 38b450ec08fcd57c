package model

import (
	"time"

	"gorm.io/datatypes"
)

// EvolutionEvent rows are insert only.
type EvolutionEvent struct {
	ID            string         `gorm:"primaryKey;type:uuid"`
	Type          string         `gorm:"not null"`
	OldStrategyID string         `gorm:"type:uuid;not null;index"`
	NewStrategyID string         `gorm:"type:uuid;not null;index"`
	Improvement   datatypes.JSON `gorm:"type:jsonb;not null"`
	Insights      string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (EvolutionEvent) TableName() string {
	return "evolution_events"
}
