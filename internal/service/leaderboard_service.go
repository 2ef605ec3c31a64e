package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
)

const (
	ActionCreateClub         = "create_club"
	ActionCreateEvent        = "create_event"
	ActionMembershipApproved = "membership_approved"

	PointsCreateClub         = 15
	PointsCreateEvent        = 10
	PointsMembershipApproved = 5

	MaxDailyClubPoints = 2
)

type LeaderboardService interface {
	AddPointsAsync(targetUserID uuid.UUID, actionType string, referenceID string, referenceTable string)
	GetLeaderboard(limit int, timeframe string) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo repository.LeaderboardRepository
}

func NewLeaderboardService(repo repository.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

func (s *leaderboardService) AddPointsAsync(targetUserID uuid.UUID, actionType string, referenceID string, referenceTable string) {
	// Execute in background
	go func() {
		points := 0
		switch actionType {
		case ActionCreateClub:
			// Daily cap keeps club spamming from farming points
			count, err := s.repo.GetDailyActionCount(targetUserID, ActionCreateClub, time.Now())
			if err != nil {
				log.Printf("Error getting daily club count for user %s: %v", targetUserID, err)
				return
			}
			if count >= MaxDailyClubPoints {
				log.Printf("User %s reached daily club creation point cap", targetUserID)
				return
			}
			points = PointsCreateClub
		case ActionCreateEvent:
			points = PointsCreateEvent
		case ActionMembershipApproved:
			points = PointsMembershipApproved
		default:
			log.Printf("Unknown action type: %s", actionType)
			return
		}

		logEntry := &model.PointLog{
			UserID:         targetUserID,
			ActionType:     actionType,
			Points:         points,
			ReferenceID:    referenceID,
			ReferenceTable: referenceTable,
			CreatedAt:      time.Now(),
		}

		if err := s.repo.CreatePointLog(logEntry); err != nil {
			log.Printf("Failed to create point log for user %s: %v", targetUserID, err)
			return
		}

		if err := s.repo.UpdateUserStats(targetUserID, points); err != nil {
			log.Printf("Failed to update user stats for user %s: %v", targetUserID, err)
		}
	}()
}

func (s *leaderboardService) GetLeaderboard(limit int, timeframe string) ([]dto.LeaderboardEntry, error) {
	stats, err := s.repo.GetTopUsers(limit, timeframe)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(stats))
	for i, stat := range stats {
		points := stat.TotalScoreAllTime
		switch timeframe {
		case "monthly":
			points = stat.TotalScoreMonthly
		case "weekly":
			points = stat.TotalScoreWeekly
		}

		entries = append(entries, dto.LeaderboardEntry{
			Name:      stat.User.Name,
			AvatarURL: stat.User.AvatarURL,
			Position:  i + 1, // 1-based position
			Points:    points,
		})
	}

	return entries, nil
}
