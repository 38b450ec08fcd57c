package utils

import "gorm.io/gorm"

type DBOption func(*gorm.DB) *gorm.DB

func ApplyOptions(db *gorm.DB, opts ...DBOption) *gorm.DB {
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

// WithTx runs the query inside an existing transaction.
func WithTx(tx *gorm.DB) DBOption {
	return func(_ *gorm.DB) *gorm.DB {
		return tx
	}
}

func WithWhere(query interface{}, args ...interface{}) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func WithLimit(limit int) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}
