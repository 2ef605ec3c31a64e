package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/model"
	"gorm.io/gorm"
)

type AddressRepository interface {
	// Create inserts the address; when it is flagged as default all other
	// defaults of the same user are unset in the same transaction.
	Create(ctx context.Context, address *model.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	// Update saves the address under the same single-default guarantee.
	Update(ctx context.Context, address *model.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := unsetOtherDefaults(tx, address.UserID, uuid.Nil); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

func (r *addressRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	var address model.Address
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}

	return &address, nil
}

func (r *addressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	var addresses []model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}

	return addresses, nil
}

func (r *addressRepository) Update(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := unsetOtherDefaults(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		// Save with Select to persist false booleans as well
		return tx.Model(address).
			Select("label", "street", "city", "state", "zip", "country", "is_default").
			Updates(address).Error
	})
}

func (r *addressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Address{}, "id = ?", id).Error
}

func unsetOtherDefaults(tx *gorm.DB, userID, exceptID uuid.UUID) error {
	query := tx.Model(&model.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", false).Error
}
