package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/pkg/apperror"
)

func newEventFixture() (EventService, ClubService, *memStore, *fakeLeaderboard) {
	store := newMemStore()
	leaderboard := &fakeLeaderboard{}
	clubRepo := &fakeClubRepo{store: store}
	membershipRepo := &fakeMembershipRepo{store: store}
	clubSvc := NewClubService(clubRepo, membershipRepo, leaderboard, &fakeNotifier{}, nil, nil, nil, 0, 0)
	eventSvc := NewEventService(&fakeEventRepo{}, clubRepo, membershipRepo, leaderboard)
	return eventSvc, clubSvc, store, leaderboard
}

func TestCreateEvent(t *testing.T) {
	eventSvc, clubSvc, _, leaderboard := newEventFixture()
	ownerID := uuid.New()
	club := createTestClub(t, clubSvc, ownerID, "Coding Club", nil)
	ctx := context.Background()

	event, err := eventSvc.CreateEvent(ctx, ownerID, dto.CreateEventRequest{
		ClubID: club.ID.String(),
		Title:  "Hack Night",
		Date:   "2025-09-10T18:00:00",
		Venue:  "Lab 2",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hack Night", event.Title)
	assert.True(t, event.IsActive)
	assert.Zero(t, event.Registrations)
	assert.Contains(t, leaderboard.awards, ActionCreateEvent)
}

func TestCreateEventRequiresClubAdmin(t *testing.T) {
	eventSvc, clubSvc, store, _ := newEventFixture()
	ownerID := uuid.New()
	club := createTestClub(t, clubSvc, ownerID, "Coding Club", nil)
	ctx := context.Background()

	outsiderID := uuid.New()
	_, err := eventSvc.CreateEvent(ctx, outsiderID, dto.CreateEventRequest{
		ClubID: club.ID.String(),
		Title:  "Hack Night",
		Date:   "2025-09-10T18:00:00",
		Venue:  "Lab 2",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Plain members are not enough either
	memberID := uuid.New()
	member := &model.ClubMember{ID: uuid.New(), ClubID: club.ID, UserID: memberID, Role: model.MemberRoleMember}
	store.members[member.ID] = member

	_, err = eventSvc.CreateEvent(ctx, memberID, dto.CreateEventRequest{
		ClubID: club.ID.String(),
		Title:  "Hack Night",
		Date:   "2025-09-10T18:00:00",
		Venue:  "Lab 2",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Moderators are not admins
	member.Role = model.MemberRoleModerator
	_, err = eventSvc.CreateEvent(ctx, memberID, dto.CreateEventRequest{
		ClubID: club.ID.String(),
		Title:  "Hack Night",
		Date:   "2025-09-10T18:00:00",
		Venue:  "Lab 2",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Admin members may
	member.Role = model.MemberRoleAdmin
	_, err = eventSvc.CreateEvent(ctx, memberID, dto.CreateEventRequest{
		ClubID: club.ID.String(),
		Title:  "Hack Night",
		Date:   "2025-09-10T18:00:00",
		Venue:  "Lab 2",
	})
	assert.NoError(t, err)
}

func TestCreateEventBadDate(t *testing.T) {
	eventSvc, clubSvc, _, _ := newEventFixture()
	ownerID := uuid.New()
	club := createTestClub(t, clubSvc, ownerID, "Coding Club", nil)

	_, err := eventSvc.CreateEvent(context.Background(), ownerID, dto.CreateEventRequest{
		ClubID: club.ID.String(),
		Title:  "Hack Night",
		Date:   "next friday",
		Venue:  "Lab 2",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestParseEventDate(t *testing.T) {
	parsed, err := parseEventDate("2025-09-10T18:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 10, 18, 0, 0, 0, time.UTC), parsed)

	parsed, err = parseEventDate("2025-09-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), parsed)

	_, err = parseEventDate("10/09/2025")
	assert.Error(t, err)
}
