package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardRepository interface {
	CreatePointLog(log *model.PointLog) error
	UpdateUserStats(userID uuid.UUID, points int) error
	GetDailyActionCount(userID uuid.UUID, actionType string, date time.Time) (int64, error)
	GetTopUsers(limit int, timeframe string) ([]model.UserStats, error)
	GetUserStatsByUserID(userID uuid.UUID) (*model.UserStats, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) CreatePointLog(log *model.PointLog) error {
	return r.db.Create(log).Error
}

func (r *leaderboardRepository) UpdateUserStats(userID uuid.UUID, points int) error {
	// Upsert via OnConflict increment
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_score_all_time": gorm.Expr("user_stats.total_score_all_time + ?", points),
			"total_score_monthly":  gorm.Expr("user_stats.total_score_monthly + ?", points),
			"total_score_weekly":   gorm.Expr("user_stats.total_score_weekly + ?", points),
			"last_updated_at":      gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&model.UserStats{
		UserID:            userID,
		TotalScoreAllTime: points,
		TotalScoreMonthly: points,
		TotalScoreWeekly:  points,
	}).Error
}

func (r *leaderboardRepository) GetDailyActionCount(userID uuid.UUID, actionType string, date time.Time) (int64, error) {
	var count int64
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	err := r.db.Model(&model.PointLog{}).
		Where("user_id = ? AND action_type = ? AND created_at >= ? AND created_at < ?", userID, actionType, startOfDay, endOfDay).
		Count(&count).Error
	return count, err
}

func (r *leaderboardRepository) GetTopUsers(limit int, timeframe string) ([]model.UserStats, error) {
	var stats []model.UserStats

	orderColumn := "total_score_all_time"
	switch timeframe {
	case "monthly":
		orderColumn = "total_score_monthly"
	case "weekly":
		orderColumn = "total_score_weekly"
	}

	err := r.db.
		Preload("User").
		Order(orderColumn + " DESC").
		Limit(limit).
		Find(&stats).Error
	return stats, err
}

func (r *leaderboardRepository) GetUserStatsByUserID(userID uuid.UUID) (*model.UserStats, error) {
	var stats model.UserStats
	if err := r.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
