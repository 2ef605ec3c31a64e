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
	"gorm.io/gorm"
)

type fakeEventRepo struct {
	events []model.Event
}

func (r *fakeEventRepo) Create(_ context.Context, event *model.Event) error {
	event.ID = uuid.New()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	for i := range r.events {
		if r.events[i].ID == id {
			return &r.events[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEventRepo) FindAll(_ context.Context, clubID *uuid.UUID, category string, offset, limit int) ([]model.Event, int64, error) {
	return r.events, int64(len(r.events)), nil
}

func (r *fakeEventRepo) FindByClub(_ context.Context, clubID uuid.UUID, limit int) ([]model.Event, error) {
	var events []model.Event
	for _, event := range r.events {
		if event.ClubID == clubID && len(events) < limit {
			events = append(events, event)
		}
	}
	return events, nil
}

func (r *fakeEventRepo) Update(_ context.Context, _ *model.Event) error { return nil }
func (r *fakeEventRepo) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

func newSuggestionFixture() (SuggestionService, *memStore, *fakeEventRepo) {
	store := newMemStore()
	eventRepo := &fakeEventRepo{}
	svc := NewSuggestionService(&fakeClubRepo{store: store}, eventRepo, nil)
	return svc, store, eventRepo
}

func addClub(store *memStore, name, category, description string, tags ...string) *model.Club {
	club := &model.Club{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		Description: description,
		Tags:        tags,
		OwnerID:     uuid.New(),
	}
	store.clubs[club.ID] = club
	return club
}

func TestSuggestPicksBestMatch(t *testing.T) {
	svc, store, eventRepo := newSuggestionFixture()

	coding := addClub(store, "Coding Club", "tech", "Weekly programming practice and hackathons", "programming", "software")
	addClub(store, "Chess Club", "games", "Casual and competitive chess", "strategy")

	eventRepo.events = append(eventRepo.events, model.Event{
		ID:     uuid.New(),
		ClubID: coding.ID,
		Title:  "Hack Night",
		Date:   time.Date(2025, 9, 10, 18, 0, 0, 0, time.UTC),
		Venue:  "Lab 2",
	})

	resp, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Interest: "programming and coding"})
	require.NoError(t, err)
	require.NotNil(t, resp.Club)

	assert.Equal(t, coding.ID, resp.Club.ID)
	assert.GreaterOrEqual(t, resp.Club.MatchScore, 1)
	assert.LessOrEqual(t, resp.Club.MatchScore, 10)
	assert.False(t, resp.AIEnhanced, "no Gemini client wired")
	assert.NotEmpty(t, resp.Reason)

	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Hack Night", resp.Events[0].Title)
	assert.Equal(t, "2025-09-10T18:00:00", resp.Events[0].Date)
}

func TestSuggestTopicBonusWithoutLiteralOverlap(t *testing.T) {
	svc, store, _ := newSuggestionFixture()

	robotics := addClub(store, "Robotics Society", "science", "Build robots and compete", "robotics")
	addClub(store, "Drama Club", "arts", "Stage plays each term", "theatre")

	resp, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Interest: "physics and research"})
	require.NoError(t, err)
	require.NotNil(t, resp.Club)
	assert.Equal(t, robotics.ID, resp.Club.ID)
}

func TestSuggestNoMatch(t *testing.T) {
	svc, store, _ := newSuggestionFixture()
	addClub(store, "Chess Club", "games", "Casual chess", "strategy")

	_, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Interest: "underwater basket weaving"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSuggestNoClubs(t *testing.T) {
	svc, _, _ := newSuggestionFixture()

	_, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Interest: "coding"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestScoreClub(t *testing.T) {
	club := &model.Club{
		Name:        "Coding Club",
		Category:    "tech",
		Description: "Programming practice",
		Tags:        []string{"software"},
	}

	assert.Zero(t, scoreClub(club, ""))
	assert.Zero(t, scoreClub(club, "a b"), "words shorter than three letters are ignored")

	nameHit := scoreClub(club, "coding")
	descHit := scoreClub(club, "programming")
	assert.Greater(t, nameHit, 0)
	assert.Greater(t, descHit, 0)
	assert.Greater(t, nameHit, scoreCategoryMatch, "name matches outweigh category matches")
}

func TestRescaleScore(t *testing.T) {
	assert.Equal(t, 1, rescaleScore(0))
	assert.Equal(t, 1, rescaleScore(-5))
	assert.Equal(t, 1, rescaleScore(3))
	assert.Equal(t, 10, rescaleScore(40))
	assert.Equal(t, 10, rescaleScore(500))

	mid := rescaleScore(20)
	assert.GreaterOrEqual(t, mid, 1)
	assert.LessOrEqual(t, mid, 10)
}
