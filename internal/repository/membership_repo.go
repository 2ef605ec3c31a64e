package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository interface {
	FindMember(ctx context.Context, clubID, userID uuid.UUID) (*model.ClubMember, error)
	FindMemberByID(ctx context.Context, memberID uuid.UUID) (*model.ClubMember, error)
	ListMembers(ctx context.Context, clubID uuid.UUID) ([]model.ClubMember, error)
	CreateMember(ctx context.Context, member *model.ClubMember) error
	DeleteMember(ctx context.Context, memberID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, memberID uuid.UUID, role string) error

	// CreateRequest checks "not already a member" and "no pending request"
	// and inserts inside one transaction. The (club_id, user_id) member
	// unique index backs the same invariant at the database level.
	CreateRequest(ctx context.Context, request *model.MembershipRequest) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*model.MembershipRequest, error)
	ListRequests(ctx context.Context, clubID uuid.UUID, status string) ([]model.MembershipRequest, error)

	// Resolve transitions a pending request to approved or rejected. An
	// approval also inserts the member row in the same transaction.
	Resolve(ctx context.Context, requestID uuid.UUID, approve bool) (*model.MembershipRequest, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) FindMember(ctx context.Context, clubID, userID uuid.UUID) (*model.ClubMember, error) {
	var member model.ClubMember
	if err := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *membershipRepository) FindMemberByID(ctx context.Context, memberID uuid.UUID) (*model.ClubMember, error) {
	var member model.ClubMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", memberID).
		First(&member).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *membershipRepository) ListMembers(ctx context.Context, clubID uuid.UUID) ([]model.ClubMember, error) {
	var members []model.ClubMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (r *membershipRepository) CreateMember(ctx context.Context, member *model.ClubMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *membershipRepository) DeleteMember(ctx context.Context, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ClubMember{}, "id = ?", memberID).Error
}

func (r *membershipRepository) UpdateMemberRole(ctx context.Context, memberID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&model.ClubMember{}).
		Where("id = ?", memberID).
		Update("role", role).Error
}

func (r *membershipRepository) CreateRequest(ctx context.Context, request *model.MembershipRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memberCount int64
		if err := tx.Model(&model.ClubMember{}).
			Where("club_id = ? AND user_id = ?", request.ClubID, request.UserID).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount > 0 {
			return apperror.Wrap(apperror.ErrConflict, "already a member of this club")
		}

		var pendingCount int64
		if err := tx.Model(&model.MembershipRequest{}).
			Where("club_id = ? AND user_id = ? AND status = ?", request.ClubID, request.UserID, model.RequestStatusPending).
			Count(&pendingCount).Error; err != nil {
			return err
		}
		if pendingCount > 0 {
			return apperror.Wrap(apperror.ErrConflict, "a pending request already exists")
		}

		request.Status = model.RequestStatusPending
		return tx.Create(request).Error
	})
}

func (r *membershipRepository) FindRequestByID(ctx context.Context, id uuid.UUID) (*model.MembershipRequest, error) {
	var request model.MembershipRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *membershipRepository) ListRequests(ctx context.Context, clubID uuid.UUID, status string) ([]model.MembershipRequest, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []model.MembershipRequest
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *membershipRepository) Resolve(ctx context.Context, requestID uuid.UUID, approve bool) (*model.MembershipRequest, error) {
	var request model.MembershipRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).
			First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Wrap(apperror.ErrNotFound, "membership request not found")
			}
			return err
		}

		if request.Status != model.RequestStatusPending {
			return apperror.Wrap(apperror.ErrConflict, "request has already been resolved")
		}

		newStatus := model.RequestStatusRejected
		if approve {
			newStatus = model.RequestStatusApproved
		}

		if err := tx.Model(&request).Update("status", newStatus).Error; err != nil {
			return err
		}
		request.Status = newStatus

		if approve {
			member := &model.ClubMember{
				ClubID: request.ClubID,
				UserID: request.UserID,
				Role:   model.MemberRoleMember,
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}
