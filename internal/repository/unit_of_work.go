package repository

import (
	"context"
	"fmt"

	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"gorm.io/gorm"
)

// UnitOfWork runs fn in one transaction; repositories join it through the passed options.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error
}

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

func (u *unitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) (err error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit().Error; commitErr != nil {
			err = fmt.Errorf("commit failed: %w", commitErr)
		}
	}()

	err = fn(utils.WithTx(tx))
	return
}
