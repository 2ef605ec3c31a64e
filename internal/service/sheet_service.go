package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/repository"
)

const (
	sheetEventsCacheKey        = "sheet:events"
	sheetAnnouncementsCacheKey = "sheet:announcements"

	demoDataMessage = "showing demo data; the live sheet could not be reached"
)

// SheetService serves read-only event and announcement feeds ingested from
// published spreadsheet CSV exports. Feeds are cached in Redis and fall back
// to bundled demo data when the sheet cannot be fetched, so the endpoints
// never hard-fail because of an upstream outage.
type SheetService interface {
	GetEvents(ctx context.Context) (*dto.SheetEventFeed, error)
	GetAnnouncements(ctx context.Context) (*dto.SheetAnnouncementFeed, error)
	Refresh(ctx context.Context)
}

type sheetService struct {
	clubRepo         repository.ClubRepository
	redisClient      *redis.Client
	httpClient       *http.Client
	eventsURL        string
	announcementsURL string
	cacheTTL         time.Duration
}

func NewSheetService(clubRepo repository.ClubRepository, redisClient *redis.Client, eventsURL, announcementsURL string, cacheTTL time.Duration) SheetService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	httpClient := &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Published sheet exports bounce through a couple of redirects
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &sheetService{
		clubRepo:         clubRepo,
		redisClient:      redisClient,
		httpClient:       httpClient,
		eventsURL:        eventsURL,
		announcementsURL: announcementsURL,
		cacheTTL:         cacheTTL,
	}
}

func (s *sheetService) GetEvents(ctx context.Context) (*dto.SheetEventFeed, error) {
	var cached dto.SheetEventFeed
	if s.readCache(ctx, sheetEventsCacheKey, &cached) {
		return &cached, nil
	}

	feed := s.fetchEvents(ctx)
	s.writeCache(ctx, sheetEventsCacheKey, feed)
	return feed, nil
}

func (s *sheetService) GetAnnouncements(ctx context.Context) (*dto.SheetAnnouncementFeed, error) {
	var cached dto.SheetAnnouncementFeed
	if s.readCache(ctx, sheetAnnouncementsCacheKey, &cached) {
		return &cached, nil
	}

	feed := s.fetchAnnouncements(ctx)
	s.writeCache(ctx, sheetAnnouncementsCacheKey, feed)
	return feed, nil
}

// Refresh re-fetches both feeds and overwrites the cache. Called from the
// background refresh ticker.
func (s *sheetService) Refresh(ctx context.Context) {
	s.writeCache(ctx, sheetEventsCacheKey, s.fetchEvents(ctx))
	s.writeCache(ctx, sheetAnnouncementsCacheKey, s.fetchAnnouncements(ctx))
}

func (s *sheetService) fetchEvents(ctx context.Context) *dto.SheetEventFeed {
	rows, err := s.fetchCSV(ctx, s.eventsURL)
	if err != nil {
		log.Printf("Failed to fetch events sheet: %v", err)
		return &dto.SheetEventFeed{Data: demoSheetEvents(), Message: demoDataMessage}
	}

	events := make([]dto.SheetEvent, 0, len(rows))
	for _, row := range rows {
		if !isPublished(publishStatus(row)) {
			continue
		}

		title := strings.TrimSpace(row["title"])
		if title == "" {
			continue
		}

		event := dto.SheetEvent{
			Title:            title,
			Description:      strings.TrimSpace(row["description"]),
			Date:             normalizeSheetDate(row["date"]),
			Venue:            strings.TrimSpace(row["venue"]),
			ClubName:         strings.TrimSpace(row["club"]),
			Category:         strings.TrimSpace(row["category"]),
			RegistrationLink: strings.TrimSpace(row["registration_link"]),
		}
		s.tagClubID(ctx, event.ClubName, &event)
		events = append(events, event)
	}

	return &dto.SheetEventFeed{Data: events}
}

func (s *sheetService) fetchAnnouncements(ctx context.Context) *dto.SheetAnnouncementFeed {
	rows, err := s.fetchCSV(ctx, s.announcementsURL)
	if err != nil {
		log.Printf("Failed to fetch announcements sheet: %v", err)
		return &dto.SheetAnnouncementFeed{Data: demoSheetAnnouncements(), Message: demoDataMessage}
	}

	announcements := make([]dto.SheetAnnouncement, 0, len(rows))
	for _, row := range rows {
		if !isPublished(publishStatus(row)) {
			continue
		}

		title := strings.TrimSpace(row["title"])
		if title == "" {
			continue
		}

		announcement := dto.SheetAnnouncement{
			Title:    title,
			Content:  strings.TrimSpace(row["content"]),
			ClubName: strings.TrimSpace(row["club"]),
			Priority: normalizePriority(row["priority"]),
			Author:   strings.TrimSpace(row["author"]),
			Date:     normalizeSheetDate(row["date"]),
		}
		if announcement.ClubName != "" {
			if club, err := s.clubRepo.FindByNameFold(ctx, announcement.ClubName); err == nil {
				id := club.ID
				announcement.ClubID = &id
			}
		}
		announcements = append(announcements, announcement)
	}

	return &dto.SheetAnnouncementFeed{Data: announcements}
}

func (s *sheetService) tagClubID(ctx context.Context, clubName string, event *dto.SheetEvent) {
	if clubName == "" {
		return
	}
	club, err := s.clubRepo.FindByNameFold(ctx, clubName)
	if err != nil {
		return
	}
	id := club.ID
	event.ClubID = &id
}

// fetchCSV downloads the sheet export and returns each data row keyed by the
// lowercased, underscored header name.
func (s *sheetService) fetchCSV(ctx context.Context, url string) ([]map[string]string, error) {
	if url == "" {
		return nil, fmt.Errorf("sheet url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet export returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}
	for i := range header {
		header[i] = normalizeHeader(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows instead of dropping the whole feed
			log.Printf("Skipping malformed sheet row: %v", err)
			continue
		}

		row := make(map[string]string, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *sheetService) readCache(ctx context.Context, key string, dest any) bool {
	if s.redisClient == nil {
		return false
	}

	payload, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(payload, dest) == nil
}

func (s *sheetService) writeCache(ctx context.Context, key string, value any) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.redisClient.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		log.Printf("Failed to cache sheet feed %s: %v", key, err)
	}
}

func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	return strings.ReplaceAll(header, " ", "_")
}

// publishStatus reads the "Publish Status" column; older sheets used a bare
// "Status" header, so that still counts.
func publishStatus(row map[string]string) string {
	if status, ok := row["publish_status"]; ok {
		return status
	}
	return row["status"]
}

// isPublished keeps only rows the sheet editors marked as live. Editors have
// used a few spellings over time, so all of them count.
func isPublished(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "published", "publish", "yes":
		return true
	default:
		return false
	}
}

func normalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "urgent", "high", "normal", "low":
		return strings.ToLower(strings.TrimSpace(priority))
	default:
		return "normal"
	}
}

// normalizeSheetDate converts the editors' date formats to ISO 8601. Rows are
// entered as DD/MM/YYYY, so that reading wins over MM/DD/YYYY when both parse.
func normalizeSheetDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	layouts := []string{
		"02/01/2006 15:04",
		"02/01/2006",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"01/02/2006 15:04",
		"01/02/2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02T15:04:05")
		}
	}

	// Unparseable dates pass through untouched
	return value
}

func demoSheetEvents() []dto.SheetEvent {
	return []dto.SheetEvent{
		{
			Title:       "Intro to Competitive Programming",
			Description: "Kickoff session covering contest formats and practice plans.",
			Date:        "2025-09-05T17:00:00",
			Venue:       "Lab 204",
			ClubName:    "Coding Club",
			Category:    "workshop",
		},
		{
			Title:       "Autumn Photo Walk",
			Description: "Golden hour shoot around the lake, all skill levels welcome.",
			Date:        "2025-09-12T16:30:00",
			Venue:       "Main Gate",
			ClubName:    "Photography Club",
			Category:    "outdoor",
		},
	}
}

func demoSheetAnnouncements() []dto.SheetAnnouncement {
	return []dto.SheetAnnouncement{
		{
			Title:    "Club fair next week",
			Content:  "All clubs get a booth in the main quad. Sign-up sheet at the student office.",
			ClubName: "Student Council",
			Priority: "high",
			Author:   "Student Office",
			Date:     "2025-09-01T09:00:00",
		},
	}
}
