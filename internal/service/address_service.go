package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"gorm.io/gorm"
)

type AddressService interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, req dto.CreateAddressRequest) (*dto.AddressResponse, error)
	GetAddresses(ctx context.Context, userID uuid.UUID) ([]dto.AddressResponse, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req dto.UpdateAddressRequest) (*dto.AddressResponse, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

type addressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, req dto.CreateAddressRequest) (*dto.AddressResponse, error) {
	address := &model.Address{
		UserID:    userID,
		Label:     req.Label,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *addressService) GetAddresses(ctx context.Context, userID uuid.UUID) ([]dto.AddressResponse, error) {
	addresses, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		responses = append(responses, toAddressResponse(&addresses[i]))
	}

	return responses, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req dto.UpdateAddressRequest) (*dto.AddressResponse, error) {
	address, err := s.findOwnedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		address.Label = *req.Label
	}
	if req.Street != nil {
		address.Street = *req.Street
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = *req.State
	}
	if req.Zip != nil {
		address.Zip = *req.Zip
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.findOwnedAddress(ctx, userID, addressID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, addressID)
}

// findOwnedAddress hides other users' addresses behind a 404 instead of a 403.
func (s *addressService) findOwnedAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "address not found")
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, apperror.Wrap(apperror.ErrNotFound, "address not found")
	}

	return address, nil
}

func toAddressResponse(address *model.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:        address.ID,
		Label:     address.Label,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		Zip:       address.Zip,
		Country:   address.Country,
		IsDefault: address.IsDefault,
		CreatedAt: address.CreatedAt,
	}
}
