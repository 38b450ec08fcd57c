package model

import "time"

type Trade struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	UserID     string    `gorm:"type:uuid;not null;index"`
	StrategyID *string   `gorm:"type:uuid"`
	Ticker     string    `gorm:"not null"`
	Action     string    `gorm:"not null"`
	Quantity   float64   `gorm:"not null"`
	Price      float64   `gorm:"not null"`
	Timestamp  time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Trade) TableName() string {
	return "trades"
}
