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

type fakeAnnouncementRepo struct {
	announcements []model.Announcement
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, announcement *model.Announcement) error {
	announcement.ID = uuid.New()
	r.announcements = append(r.announcements, *announcement)
	return nil
}

func (r *fakeAnnouncementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Announcement, error) {
	for i := range r.announcements {
		if r.announcements[i].ID == id {
			return &r.announcements[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAnnouncementRepo) FindPublished(_ context.Context, _ *uuid.UUID, _ string, _, _ int) ([]model.Announcement, int64, error) {
	return r.announcements, int64(len(r.announcements)), nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, _ *model.Announcement) error { return nil }
func (r *fakeAnnouncementRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }

func newAnnouncementFixture() (AnnouncementService, ClubService, *memStore) {
	store := newMemStore()
	clubRepo := &fakeClubRepo{store: store}
	membershipRepo := &fakeMembershipRepo{store: store}
	clubSvc := NewClubService(clubRepo, membershipRepo, &fakeLeaderboard{}, &fakeNotifier{}, nil, nil, nil, 0, 0)
	announcementSvc := NewAnnouncementService(&fakeAnnouncementRepo{}, clubRepo, membershipRepo)
	return announcementSvc, clubSvc, store
}

func TestCreateAnnouncementSanitizesContent(t *testing.T) {
	announcementSvc, clubSvc, _ := newAnnouncementFixture()
	ownerID := uuid.New()
	club := createTestClub(t, clubSvc, ownerID, "Coding Club", nil)

	announcement, err := announcementSvc.CreateAnnouncement(context.Background(), ownerID, dto.CreateAnnouncementRequest{
		ClubID:  club.ID.String(),
		Title:   "Meeting moved",
		Content: `<p>New room</p><script>alert("x")</script>`,
	})
	require.NoError(t, err)

	assert.Equal(t, "<p>New room</p>", announcement.Content)
	assert.Equal(t, model.PriorityNormal, announcement.Priority)
	assert.True(t, announcement.IsPublished)
}

func TestCreateAnnouncementRequiresClubAdmin(t *testing.T) {
	announcementSvc, clubSvc, store := newAnnouncementFixture()
	ownerID := uuid.New()
	club := createTestClub(t, clubSvc, ownerID, "Coding Club", nil)
	ctx := context.Background()

	req := dto.CreateAnnouncementRequest{
		ClubID:  club.ID.String(),
		Title:   "Meeting moved",
		Content: "New room",
	}

	_, err := announcementSvc.CreateAnnouncement(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	memberID := uuid.New()
	member := &model.ClubMember{ID: uuid.New(), ClubID: club.ID, UserID: memberID, Role: model.MemberRoleModerator}
	store.members[member.ID] = member

	_, err = announcementSvc.CreateAnnouncement(ctx, memberID, req)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	member.Role = model.MemberRoleAdmin
	_, err = announcementSvc.CreateAnnouncement(ctx, memberID, req)
	assert.NoError(t, err)
}
