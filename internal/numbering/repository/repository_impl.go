package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) numberingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) GetForUpdate(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (*numberingdomain.NumberingState, error) {
	stmt := tx.WithContext(ctx)
	// SQLite serializes writers on its own and rejects FOR UPDATE.
	if stmt.Dialector.Name() == "postgres" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var state numberingdomain.NumberingState
	err := stmt.Where("tenant_id = ?", tenantID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *repository) Get(ctx context.Context, tenantID snowflake.ID) (*numberingdomain.NumberingState, error) {
	var state numberingdomain.NumberingState
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, state *numberingdomain.NumberingState) error {
	return tx.WithContext(ctx).Create(state).Error
}

func (r *repository) SetNextNumber(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, next int64) error {
	result := tx.WithContext(ctx).
		Model(&numberingdomain.NumberingState{}).
		Where("tenant_id = ?", tenantID).
		Update("next_number", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return numberingdomain.ErrStateNotFound
	}
	return nil
}

func (r *repository) Update(ctx context.Context, tenantID snowflake.ID, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&numberingdomain.NumberingState{}).
		Where("tenant_id = ?", tenantID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return numberingdomain.ErrStateNotFound
	}
	return nil
}
