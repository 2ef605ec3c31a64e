package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"gorm.io/gorm"
)

// In-memory fakes shared by the service tests.

type memStore struct {
	clubs    map[uuid.UUID]*model.Club
	members  map[uuid.UUID]*model.ClubMember
	requests map[uuid.UUID]*model.MembershipRequest
}

func newMemStore() *memStore {
	return &memStore{
		clubs:    make(map[uuid.UUID]*model.Club),
		members:  make(map[uuid.UUID]*model.ClubMember),
		requests: make(map[uuid.UUID]*model.MembershipRequest),
	}
}

type fakeClubRepo struct {
	store *memStore
}

func (r *fakeClubRepo) CreateWithOwner(_ context.Context, club *model.Club) error {
	club.ID = uuid.New()
	r.store.clubs[club.ID] = club

	member := &model.ClubMember{
		ID:     uuid.New(),
		ClubID: club.ID,
		UserID: club.OwnerID,
		Role:   model.MemberRoleAdmin,
	}
	r.store.members[member.ID] = member
	return nil
}

func (r *fakeClubRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Club, error) {
	club, ok := r.store.clubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return club, nil
}

func (r *fakeClubRepo) FindByName(_ context.Context, name string) (*model.Club, error) {
	for _, club := range r.store.clubs {
		if club.Name == name {
			return club, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClubRepo) FindByNameFold(_ context.Context, name string) (*model.Club, error) {
	for _, club := range r.store.clubs {
		if strings.EqualFold(club.Name, name) {
			return club, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClubRepo) FindAll(_ context.Context, category, search string, offset, limit int) ([]model.Club, int64, error) {
	var clubs []model.Club
	for _, club := range r.store.clubs {
		if category != "" && club.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(club.Name), strings.ToLower(search)) {
			continue
		}
		clubs = append(clubs, *club)
	}
	return clubs, int64(len(clubs)), nil
}

func (r *fakeClubRepo) Update(_ context.Context, club *model.Club) error {
	r.store.clubs[club.ID] = club
	return nil
}

func (r *fakeClubRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.clubs, id)
	for mid, member := range r.store.members {
		if member.ClubID == id {
			delete(r.store.members, mid)
		}
	}
	return nil
}

func (r *fakeClubRepo) MemberCount(_ context.Context, clubID uuid.UUID) (int64, error) {
	var count int64
	for _, member := range r.store.members {
		if member.ClubID == clubID {
			count++
		}
	}
	return count, nil
}

type fakeMembershipRepo struct {
	store *memStore
}

func (r *fakeMembershipRepo) FindMember(_ context.Context, clubID, userID uuid.UUID) (*model.ClubMember, error) {
	for _, member := range r.store.members {
		if member.ClubID == clubID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMembershipRepo) FindMemberByID(_ context.Context, memberID uuid.UUID) (*model.ClubMember, error) {
	member, ok := r.store.members[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (r *fakeMembershipRepo) ListMembers(_ context.Context, clubID uuid.UUID) ([]model.ClubMember, error) {
	var members []model.ClubMember
	for _, member := range r.store.members {
		if member.ClubID == clubID {
			members = append(members, *member)
		}
	}
	return members, nil
}

func (r *fakeMembershipRepo) CreateMember(_ context.Context, member *model.ClubMember) error {
	member.ID = uuid.New()
	r.store.members[member.ID] = member
	return nil
}

func (r *fakeMembershipRepo) DeleteMember(_ context.Context, memberID uuid.UUID) error {
	delete(r.store.members, memberID)
	return nil
}

func (r *fakeMembershipRepo) UpdateMemberRole(_ context.Context, memberID uuid.UUID, role string) error {
	member, ok := r.store.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.Role = role
	return nil
}

func (r *fakeMembershipRepo) CreateRequest(ctx context.Context, request *model.MembershipRequest) error {
	if _, err := r.FindMember(ctx, request.ClubID, request.UserID); err == nil {
		return apperror.Wrap(apperror.ErrConflict, "already a member of this club")
	}
	for _, existing := range r.store.requests {
		if existing.ClubID == request.ClubID && existing.UserID == request.UserID && existing.Status == model.RequestStatusPending {
			return apperror.Wrap(apperror.ErrConflict, "a pending request already exists")
		}
	}

	request.ID = uuid.New()
	request.Status = model.RequestStatusPending
	r.store.requests[request.ID] = request
	return nil
}

func (r *fakeMembershipRepo) FindRequestByID(_ context.Context, id uuid.UUID) (*model.MembershipRequest, error) {
	request, ok := r.store.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (r *fakeMembershipRepo) ListRequests(_ context.Context, clubID uuid.UUID, status string) ([]model.MembershipRequest, error) {
	var requests []model.MembershipRequest
	for _, request := range r.store.requests {
		if request.ClubID != clubID {
			continue
		}
		if status != "" && request.Status != status {
			continue
		}
		requests = append(requests, *request)
	}
	return requests, nil
}

func (r *fakeMembershipRepo) Resolve(ctx context.Context, requestID uuid.UUID, approve bool) (*model.MembershipRequest, error) {
	request, ok := r.store.requests[requestID]
	if !ok {
		return nil, apperror.Wrap(apperror.ErrNotFound, "membership request not found")
	}
	if request.Status != model.RequestStatusPending {
		return nil, apperror.Wrap(apperror.ErrConflict, "request has already been resolved")
	}

	if approve {
		request.Status = model.RequestStatusApproved
		member := &model.ClubMember{ClubID: request.ClubID, UserID: request.UserID, Role: model.MemberRoleMember}
		if err := r.CreateMember(ctx, member); err != nil {
			return nil, err
		}
	} else {
		request.Status = model.RequestStatusRejected
	}

	return request, nil
}

type fakeLeaderboard struct {
	awards []string
}

func (l *fakeLeaderboard) AddPointsAsync(_ uuid.UUID, actionType string, _ string, _ string) {
	l.awards = append(l.awards, actionType)
}

func (l *fakeLeaderboard) GetLeaderboard(int, string) ([]dto.LeaderboardEntry, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent []*model.Notification
}

func (n *fakeNotifier) CreateNotification(_ context.Context, notification *model.Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

func (n *fakeNotifier) GetNotifications(uuid.UUID, int, int) ([]model.Notification, error) {
	return nil, nil
}
func (n *fakeNotifier) MarkAsRead(uuid.UUID) error           { return nil }
func (n *fakeNotifier) MarkAllAsRead(uuid.UUID) error        { return nil }
func (n *fakeNotifier) UnreadCount(uuid.UUID) (int64, error) { return 0, nil }

func newClubServiceForTest() (ClubService, *memStore, *fakeLeaderboard, *fakeNotifier) {
	store := newMemStore()
	leaderboard := &fakeLeaderboard{}
	notifier := &fakeNotifier{}
	svc := NewClubService(
		&fakeClubRepo{store: store},
		&fakeMembershipRepo{store: store},
		leaderboard,
		notifier,
		nil, nil, nil,
		0, 0,
	)
	return svc, store, leaderboard, notifier
}

func createTestClub(t *testing.T, svc ClubService, ownerID uuid.UUID, name string, maxMembers *int) *dto.ClubResponse {
	t.Helper()

	club, err := svc.CreateClub(context.Background(), ownerID, dto.CreateClubRequest{
		Name:        name,
		Description: "a club for testing",
		Category:    "tech",
		MaxMembers:  maxMembers,
	})
	require.NoError(t, err)
	return club
}

func TestCreateClub(t *testing.T) {
	svc, store, leaderboard, _ := newClubServiceForTest()
	ownerID := uuid.New()

	club := createTestClub(t, svc, ownerID, "Coding Club", nil)

	assert.Equal(t, "Coding Club", club.Name)
	assert.Equal(t, ownerID, club.OwnerID)
	assert.Equal(t, int64(1), club.MemberCount, "owner becomes the first member")
	assert.Equal(t, []string{ActionCreateClub}, leaderboard.awards)

	// Owner membership row carries the admin role
	for _, member := range store.members {
		assert.Equal(t, model.MemberRoleAdmin, member.Role)
	}
}

func TestCreateClubDuplicateName(t *testing.T) {
	svc, _, _, _ := newClubServiceForTest()
	ownerID := uuid.New()

	createTestClub(t, svc, ownerID, "Coding Club", nil)

	_, err := svc.CreateClub(context.Background(), uuid.New(), dto.CreateClubRequest{
		Name:        "Coding Club",
		Description: "another",
		Category:    "tech",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestJoinIsOwnerOnly(t *testing.T) {
	svc, _, _, _ := newClubServiceForTest()
	ownerID := uuid.New()
	club := createTestClub(t, svc, ownerID, "Coding Club", nil)

	err := svc.Join(context.Background(), uuid.New(), club.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Owner is already a member right after creation
	err = svc.Join(context.Background(), ownerID, club.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLeave(t *testing.T) {
	svc, _, _, _ := newClubServiceForTest()
	ownerID := uuid.New()
	club := createTestClub(t, svc, ownerID, "Coding Club", nil)

	err := svc.Leave(context.Background(), uuid.New(), club.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "non-members get a 404")

	err = svc.Leave(context.Background(), ownerID, club.ID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest, "owner cannot leave their own club")
}

func TestMembershipRequestWorkflow(t *testing.T) {
	svc, _, leaderboard, notifier := newClubServiceForTest()
	ownerID := uuid.New()
	applicantID := uuid.New()
	club := createTestClub(t, svc, ownerID, "Coding Club", nil)
	ctx := context.Background()

	request, err := svc.RequestMembership(ctx, applicantID, club.ID, dto.CreateMembershipRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, request.Status)

	// A second request while one is pending conflicts
	_, err = svc.RequestMembership(ctx, applicantID, club.ID, dto.CreateMembershipRequest{})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Only the owner may resolve
	_, err = svc.ResolveRequest(ctx, applicantID, club.ID, request.ID, "approve")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resolved, err := svc.ResolveRequest(ctx, ownerID, club.ID, request.ID, "approve")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, resolved.Status)

	members, err := svc.ListMembers(ctx, club.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	assert.Contains(t, leaderboard.awards, ActionMembershipApproved)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, model.NotificationRequestApproved, notifier.sent[0].Type)
	assert.Equal(t, applicantID, notifier.sent[0].UserID)

	// Resolving twice conflicts
	_, err = svc.ResolveRequest(ctx, ownerID, club.ID, request.ID, "approve")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Members cannot file a new request
	_, err = svc.RequestMembership(ctx, applicantID, club.ID, dto.CreateMembershipRequest{})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestResolveRequestForeignClub(t *testing.T) {
	svc, _, _, _ := newClubServiceForTest()
	ownerID := uuid.New()
	otherOwnerID := uuid.New()
	clubA := createTestClub(t, svc, ownerID, "Club A", nil)
	clubB := createTestClub(t, svc, otherOwnerID, "Club B", nil)
	ctx := context.Background()

	request, err := svc.RequestMembership(ctx, uuid.New(), clubA.ID, dto.CreateMembershipRequest{})
	require.NoError(t, err)

	// Request belongs to club A; resolving through club B is a 404
	_, err = svc.ResolveRequest(ctx, otherOwnerID, clubB.ID, request.ID, "approve")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResolveRequestCapacity(t *testing.T) {
	svc, _, _, _ := newClubServiceForTest()
	ownerID := uuid.New()
	maxMembers := 1
	club := createTestClub(t, svc, ownerID, "Tiny Club", &maxMembers)
	ctx := context.Background()

	request, err := svc.RequestMembership(ctx, uuid.New(), club.ID, dto.CreateMembershipRequest{})
	require.NoError(t, err)

	// Owner already fills the single slot
	_, err = svc.ResolveRequest(ctx, ownerID, club.ID, request.ID, "approve")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Rejection still works at capacity
	resolved, err := svc.ResolveRequest(ctx, ownerID, club.ID, request.ID, "reject")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, resolved.Status)
}

func TestRemoveMember(t *testing.T) {
	svc, store, _, notifier := newClubServiceForTest()
	ownerID := uuid.New()
	memberUserID := uuid.New()
	club := createTestClub(t, svc, ownerID, "Coding Club", nil)
	ctx := context.Background()

	request, err := svc.RequestMembership(ctx, memberUserID, club.ID, dto.CreateMembershipRequest{})
	require.NoError(t, err)
	_, err = svc.ResolveRequest(ctx, ownerID, club.ID, request.ID, "approve")
	require.NoError(t, err)

	var ownerMemberID, memberID uuid.UUID
	for id, member := range store.members {
		if member.UserID == ownerID {
			ownerMemberID = id
		} else {
			memberID = id
		}
	}

	err = svc.RemoveMember(ctx, ownerID, club.ID, ownerMemberID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest, "owner cannot remove themself")

	err = svc.RemoveMember(ctx, ownerID, club.ID, memberID)
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, club.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	removed := notifier.sent[len(notifier.sent)-1]
	assert.Equal(t, model.NotificationMemberRemoved, removed.Type)
	assert.Equal(t, memberUserID, removed.UserID)
}

func TestUpdateMemberRole(t *testing.T) {
	svc, store, _, notifier := newClubServiceForTest()
	ownerID := uuid.New()
	memberUserID := uuid.New()
	club := createTestClub(t, svc, ownerID, "Coding Club", nil)
	ctx := context.Background()

	request, err := svc.RequestMembership(ctx, memberUserID, club.ID, dto.CreateMembershipRequest{})
	require.NoError(t, err)
	_, err = svc.ResolveRequest(ctx, ownerID, club.ID, request.ID, "approve")
	require.NoError(t, err)

	var memberID uuid.UUID
	for id, member := range store.members {
		if member.UserID == memberUserID {
			memberID = id
		}
	}

	require.NoError(t, svc.UpdateMemberRole(ctx, ownerID, club.ID, memberID, model.MemberRoleModerator))
	assert.Equal(t, model.MemberRoleModerator, store.members[memberID].Role)

	changed := notifier.sent[len(notifier.sent)-1]
	assert.Equal(t, model.NotificationRoleChanged, changed.Type)
}
