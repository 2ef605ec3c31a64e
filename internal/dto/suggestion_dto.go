package dto

import "github.com/google/uuid"

type SuggestionRequest struct {
	Interest string `json:"interest" binding:"required,min=2"`
}

type SuggestionResponse struct {
	Club       *SuggestedClub   `json:"club"`
	Events     []SuggestedEvent `json:"events"`
	Reason     string           `json:"reason,omitempty"`
	AIEnhanced bool             `json:"ai_enhanced"`
}

type SuggestedClub struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	MatchScore  int       `json:"matchScore"`
}

type SuggestedEvent struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Date  string    `json:"date"`
	Venue string    `json:"venue"`
}
