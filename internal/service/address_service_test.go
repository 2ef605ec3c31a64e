package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"gorm.io/gorm"
)

type fakeAddressRepo struct {
	addresses map[uuid.UUID]*model.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[uuid.UUID]*model.Address)}
}

func (r *fakeAddressRepo) unsetOtherDefaults(userID, exceptID uuid.UUID) {
	for _, address := range r.addresses {
		if address.UserID == userID && address.ID != exceptID {
			address.IsDefault = false
		}
	}
}

func (r *fakeAddressRepo) Create(_ context.Context, address *model.Address) error {
	address.ID = uuid.New()
	if address.IsDefault {
		r.unsetOtherDefaults(address.UserID, address.ID)
	}
	r.addresses[address.ID] = address
	return nil
}

func (r *fakeAddressRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Address, error) {
	address, ok := r.addresses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return address, nil
}

func (r *fakeAddressRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]model.Address, error) {
	var addresses []model.Address
	for _, address := range r.addresses {
		if address.UserID == userID {
			addresses = append(addresses, *address)
		}
	}
	return addresses, nil
}

func (r *fakeAddressRepo) Update(_ context.Context, address *model.Address) error {
	if address.IsDefault {
		r.unsetOtherDefaults(address.UserID, address.ID)
	}
	r.addresses[address.ID] = address
	return nil
}

func (r *fakeAddressRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.addresses, id)
	return nil
}

func TestCreateAddressSingleDefault(t *testing.T) {
	repo := newFakeAddressRepo()
	svc := NewAddressService(repo)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.CreateAddress(ctx, userID, dto.CreateAddressRequest{
		Label: "home", Street: "1 Main St", City: "Springfield", Country: "US", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateAddress(ctx, userID, dto.CreateAddressRequest{
		Label: "hostel", Street: "2 Dorm Rd", City: "Springfield", Country: "US", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	// Making the second address default unsets the first
	assert.False(t, repo.addresses[first.ID].IsDefault)

	addresses, err := svc.GetAddresses(ctx, userID)
	require.NoError(t, err)
	defaults := 0
	for _, address := range addresses {
		if address.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestUpdateAddressOwnership(t *testing.T) {
	repo := newFakeAddressRepo()
	svc := NewAddressService(repo)
	ownerID := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateAddress(ctx, ownerID, dto.CreateAddressRequest{
		Label: "home", Street: "1 Main St", City: "Springfield", Country: "US",
	})
	require.NoError(t, err)

	// Another user sees a 404, not a 403
	newCity := "Shelbyville"
	_, err = svc.UpdateAddress(ctx, uuid.New(), created.ID, dto.UpdateAddressRequest{City: &newCity})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	updated, err := svc.UpdateAddress(ctx, ownerID, created.ID, dto.UpdateAddressRequest{City: &newCity})
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)
}

func TestDeleteAddress(t *testing.T) {
	repo := newFakeAddressRepo()
	svc := NewAddressService(repo)
	ownerID := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateAddress(ctx, ownerID, dto.CreateAddressRequest{
		Label: "home", Street: "1 Main St", City: "Springfield", Country: "US",
	})
	require.NoError(t, err)

	err = svc.DeleteAddress(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, svc.DeleteAddress(ctx, ownerID, created.ID))

	addresses, err := svc.GetAddresses(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, addresses)
}
