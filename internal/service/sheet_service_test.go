package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventSheetCSV = `Title,Description,Date,Venue,Club,Category,Registration Link,Publish Status
Hack Night,Overnight hackathon,23/08/2025 10:00,Lab 2,Coding Club,workshop,https://example.com/reg,published
Secret Planning,Not ready yet,24/08/2025,Room 1,Coding Club,meeting,,draft
Photo Walk,Campus shoot,2025-09-01,Main Gate,Photography Club,outdoor,,publish
Open Mic,,05/09/2025 19:30,Auditorium,Music Club,show,,yes
,missing title row,06/09/2025,Hall,,misc,,published
`

func newSheetFixture(t *testing.T, csvBody string) (SheetService, *memStore) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csvBody))
	}))
	t.Cleanup(server.Close)

	store := newMemStore()
	svc := NewSheetService(&fakeClubRepo{store: store}, nil, server.URL, server.URL, 0)
	return svc, store
}

func TestSheetEventsPublishFilter(t *testing.T) {
	svc, _ := newSheetFixture(t, eventSheetCSV)

	feed, err := svc.GetEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed.Message)

	titles := make([]string, 0, len(feed.Data))
	for _, event := range feed.Data {
		titles = append(titles, event.Title)
	}

	// Draft rows and rows without a title are dropped; published, publish and
	// yes all count as live.
	assert.ElementsMatch(t, []string{"Hack Night", "Photo Walk", "Open Mic"}, titles)
}

func TestSheetEventsLegacyStatusHeader(t *testing.T) {
	const legacyCSV = `Title,Date,Status
Hack Night,23/08/2025 10:00,published
Secret Planning,24/08/2025,draft
`
	svc, _ := newSheetFixture(t, legacyCSV)

	feed, err := svc.GetEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.Data, 1)
	assert.Equal(t, "Hack Night", feed.Data[0].Title)
}

func TestSheetEventsDateNormalization(t *testing.T) {
	svc, _ := newSheetFixture(t, eventSheetCSV)

	feed, err := svc.GetEvents(context.Background())
	require.NoError(t, err)

	byTitle := make(map[string]string)
	for _, event := range feed.Data {
		byTitle[event.Title] = event.Date
	}

	// Day-first reading: 23/08/2025 is August 23rd
	assert.Equal(t, "2025-08-23T10:00:00", byTitle["Hack Night"])
	assert.Equal(t, "2025-09-01T00:00:00", byTitle["Photo Walk"])
	assert.Equal(t, "2025-09-05T19:30:00", byTitle["Open Mic"])
}

func TestSheetEventsClubTagging(t *testing.T) {
	svc, store := newSheetFixture(t, eventSheetCSV)
	coding := addClub(store, "coding club", "tech", "programming")

	feed, err := svc.GetEvents(context.Background())
	require.NoError(t, err)

	for _, event := range feed.Data {
		switch event.Title {
		case "Hack Night":
			// Name match is case-insensitive
			require.NotNil(t, event.ClubID)
			assert.Equal(t, coding.ID, *event.ClubID)
		case "Photo Walk":
			assert.Nil(t, event.ClubID, "unknown club names stay untagged")
		}
	}
}

func TestSheetEventsFallbackToDemoData(t *testing.T) {
	store := newMemStore()
	svc := NewSheetService(&fakeClubRepo{store: store}, nil, "", "", 0)

	feed, err := svc.GetEvents(context.Background())
	require.NoError(t, err, "an unreachable sheet never hard-fails the feed")
	assert.NotEmpty(t, feed.Data)
	assert.Equal(t, demoDataMessage, feed.Message)
}

func TestSheetAnnouncements(t *testing.T) {
	const announcementCSV = `Title,Content,Club,Priority,Author,Date,Publish Status
Club Fair,Booths in the quad,Student Council,HIGH,Office,01/09/2025,published
Hidden,Do not show,Student Council,low,Office,02/09/2025,no
Weird Priority,Check fallback,Student Council,critical,Office,03/09/2025,publish
`
	svc, _ := newSheetFixture(t, announcementCSV)

	feed, err := svc.GetAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Data, 2)

	byTitle := make(map[string]string)
	for _, a := range feed.Data {
		byTitle[a.Title] = a.Priority
	}
	assert.Equal(t, "high", byTitle["Club Fair"], "priorities are lowercased")
	assert.Equal(t, "normal", byTitle["Weird Priority"], "unknown priorities fall back to normal")
}

func TestNormalizeSheetDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"day first with time", "23/08/2025 10:00", "2025-08-23T10:00:00"},
		{"day first date only", "05/01/2025", "2025-01-05T00:00:00"},
		{"iso date", "2025-08-23", "2025-08-23T00:00:00"},
		{"iso datetime", "2025-08-23T10:00:00", "2025-08-23T10:00:00"},
		{"empty", "", ""},
		{"garbage passes through", "next friday", "next friday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSheetDate(tt.input))
		})
	}
}

func TestIsPublished(t *testing.T) {
	assert.True(t, isPublished("published"))
	assert.True(t, isPublished("Publish"))
	assert.True(t, isPublished(" YES "))
	assert.False(t, isPublished("draft"))
	assert.False(t, isPublished(""))
}
