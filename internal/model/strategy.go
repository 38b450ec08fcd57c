package model

import (
	"time"

	"gorm.io/datatypes"
)

type Strategy struct {
	ID         string         `gorm:"primaryKey;type:uuid"`
	UserID     *string        `gorm:"type:uuid;index"`
	Name       string         `gorm:"not null"`
	Type       string         `gorm:"not null"`
	Parameters datatypes.JSON `gorm:"type:jsonb;not null"`
	Metrics    datatypes.JSON `gorm:"type:jsonb"`
	ParentID   *string        `gorm:"type:uuid;index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Strategy) TableName() string {
	return "strategies"
}
