package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/facturo/facturo/internal/client/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) clientdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, client *clientdomain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*clientdomain.Client, error) {
	var client clientdomain.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) FindByIDAnyTenant(ctx context.Context, id snowflake.ID) (*clientdomain.Client, error) {
	var client clientdomain.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, tenantID snowflake.ID) ([]clientdomain.Client, error) {
	var items []clientdomain.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}
