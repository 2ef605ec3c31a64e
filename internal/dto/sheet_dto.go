package dto

import "github.com/google/uuid"

// SheetEvent is a read-only event row ingested from the published
// spreadsheet CSV export. ClubID is resolved at ingestion time by
// case-insensitive club name lookup and may be nil for unknown clubs.
type SheetEvent struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Date             string     `json:"date"`
	Venue            string     `json:"venue"`
	ClubName         string     `json:"club_name"`
	ClubID           *uuid.UUID `json:"club_id,omitempty"`
	Category         string     `json:"category"`
	RegistrationLink string     `json:"registration_link,omitempty"`
}

// SheetAnnouncement is the announcement counterpart of SheetEvent.
type SheetAnnouncement struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	ClubName string     `json:"club_name"`
	ClubID   *uuid.UUID `json:"club_id,omitempty"`
	Priority string     `json:"priority"`
	Author   string     `json:"author"`
	Date     string     `json:"date"`
}

type SheetEventFeed struct {
	Data    []SheetEvent `json:"data"`
	Message string       `json:"message,omitempty"`
}

type SheetAnnouncementFeed struct {
	Data    []SheetAnnouncement `json:"data"`
	Message string              `json:"message,omitempty"`
}
