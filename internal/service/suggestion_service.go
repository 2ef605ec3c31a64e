package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/pkg/apperror"
)

const (
	suggestionClubScanLimit = 200
	suggestionEventLimit    = 3

	scoreNameMatch     = 10
	scoreDescMatch     = 8
	scoreTagMatch      = 7
	scoreCategoryMatch = 6
	scoreTopicMatch    = 4
)

// topicKeywords maps an interest topic to the words that signal it. A club
// matching the same topic as the interest earns a small bonus even when no
// literal word overlaps.
var topicKeywords = map[string][]string{
	"coding":     {"coding", "programming", "software", "developer", "code", "hackathon", "tech"},
	"music":      {"music", "band", "choir", "singing", "instrument", "concert"},
	"sports":     {"sports", "football", "basketball", "cricket", "fitness", "athletics"},
	"arts":       {"art", "arts", "painting", "drawing", "design", "craft"},
	"photo":      {"photo", "photography", "camera", "film"},
	"literature": {"literature", "book", "books", "reading", "writing", "poetry", "debate"},
	"science":    {"science", "robotics", "physics", "chemistry", "astronomy", "research"},
	"social":     {"volunteer", "community", "social", "charity", "outreach"},
}

type SuggestionService interface {
	Suggest(ctx context.Context, req dto.SuggestionRequest) (*dto.SuggestionResponse, error)
}

type suggestionService struct {
	clubRepo  repository.ClubRepository
	eventRepo repository.EventRepository
	genai     *genai.Client
	modelName string
}

// NewSuggestionService wires the DB-driven matcher with an optional Gemini
// client. A nil client disables AI refinement but never the feature itself.
func NewSuggestionService(clubRepo repository.ClubRepository, eventRepo repository.EventRepository, genaiClient *genai.Client) SuggestionService {
	return &suggestionService{
		clubRepo:  clubRepo,
		eventRepo: eventRepo,
		genai:     genaiClient,
		modelName: "gemini-2.0-flash",
	}
}

func (s *suggestionService) Suggest(ctx context.Context, req dto.SuggestionRequest) (*dto.SuggestionResponse, error) {
	clubs, _, err := s.clubRepo.FindAll(ctx, "", "", 0, suggestionClubScanLimit)
	if err != nil {
		return nil, err
	}
	if len(clubs) == 0 {
		return nil, apperror.Wrap(apperror.ErrNotFound, "no clubs available to suggest")
	}

	best, bestScore := s.pickBestClub(clubs, req.Interest)
	if best == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "no club matches this interest")
	}

	events, err := s.eventRepo.FindByClub(ctx, best.ID, suggestionEventLimit)
	if err != nil {
		log.Printf("Failed to load events for suggested club %s: %v", best.ID, err)
		events = nil
	}

	resp := &dto.SuggestionResponse{
		Club: &dto.SuggestedClub{
			ID:          best.ID,
			Name:        best.Name,
			Description: best.Description,
			Category:    best.Category,
			Tags:        best.Tags,
			MatchScore:  rescaleScore(bestScore),
		},
		Events: toSuggestedEvents(events),
		Reason: fmt.Sprintf("%s matches your interest in %s", best.Name, req.Interest),
	}

	// Best-effort refinement; the DB-driven suggestion is the canonical answer
	if reason, ok := s.refineReason(ctx, req.Interest, best); ok {
		resp.Reason = reason
		resp.AIEnhanced = true
	}

	return resp, nil
}

func (s *suggestionService) pickBestClub(clubs []model.Club, interest string) (*model.Club, int) {
	var best *model.Club
	bestScore := 0

	for i := range clubs {
		score := scoreClub(&clubs[i], interest)
		if score > bestScore {
			best = &clubs[i]
			bestScore = score
		}
	}

	return best, bestScore
}

func scoreClub(club *model.Club, interest string) int {
	words := interestWords(interest)
	if len(words) == 0 {
		return 0
	}

	name := strings.ToLower(club.Name)
	description := strings.ToLower(club.Description)
	category := strings.ToLower(club.Category)

	score := 0
	for _, word := range words {
		if strings.Contains(name, word) {
			score += scoreNameMatch
		}
		if strings.Contains(description, word) {
			score += scoreDescMatch
		}
		if strings.Contains(category, word) {
			score += scoreCategoryMatch
		}
		for _, tag := range club.Tags {
			if strings.Contains(strings.ToLower(tag), word) {
				score += scoreTagMatch
				break
			}
		}
	}

	interestTopics := matchTopics(words)
	clubWords := append(interestWords(name+" "+category+" "+description), lowercaseAll(club.Tags)...)
	for topic := range matchTopics(clubWords) {
		if interestTopics[topic] {
			score += scoreTopicMatch
		}
	}

	return score
}

func matchTopics(words []string) map[string]bool {
	topics := make(map[string]bool)
	for topic, keywords := range topicKeywords {
		for _, keyword := range keywords {
			for _, word := range words {
				if word == keyword {
					topics[topic] = true
				}
			}
		}
	}
	return topics
}

func interestWords(interest string) []string {
	fields := strings.Fields(strings.ToLower(interest))
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, ".,!?;:\"'()")
		if len(word) >= 3 {
			words = append(words, word)
		}
	}
	return words
}

func lowercaseAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// rescaleScore maps the raw match score onto the 1 to 10 range the API
// exposes as matchScore.
func rescaleScore(raw int) int {
	if raw <= 0 {
		return 1
	}
	scaled := raw / 4
	if scaled < 1 {
		scaled = 1
	}
	if scaled > 10 {
		scaled = 10
	}
	return scaled
}

func toSuggestedEvents(events []model.Event) []dto.SuggestedEvent {
	out := make([]dto.SuggestedEvent, 0, len(events))
	for _, event := range events {
		out = append(out, dto.SuggestedEvent{
			ID:    event.ID,
			Title: event.Title,
			Date:  event.Date.Format("2006-01-02T15:04:05"),
			Venue: event.Venue,
		})
	}
	return out
}

type refinedSuggestion struct {
	Reason string `json:"reason"`
}

// refineReason asks Gemini for a one-sentence pitch. Any failure falls back
// silently to the template reason.
func (s *suggestionService) refineReason(ctx context.Context, interest string, club *model.Club) (string, bool) {
	if s.genai == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	gm := s.genai.GenerativeModel(s.modelName)
	gm.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(`A student is interested in %q. We matched them with this club:
Name: %s
Category: %s
Description: %s
Tags: %s

Write one friendly sentence explaining why this club fits their interest.
Respond as JSON: {"reason": "..."}`,
		interest, club.Name, club.Category, club.Description, strings.Join(club.Tags, ", "))

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Gemini suggestion refinement failed: %v", err)
		return "", false
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", false
	}

	var refined refinedSuggestion
	if err := json.Unmarshal([]byte(text), &refined); err != nil || strings.TrimSpace(refined.Reason) == "" {
		log.Printf("Gemini returned an unusable suggestion payload: %v", err)
		return "", false
	}

	return strings.TrimSpace(refined.Reason), true
}
