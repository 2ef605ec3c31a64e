package service

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tekions/clubhub-backend/internal/model"
)

// SearchService keeps the club discovery index in Meilisearch up to date and
// issues scoped tenant tokens so the frontend can query it directly.
type SearchService interface {
	IndexClub(club *model.Club) error
	DeleteClub(id string) error
	GenerateSearchToken() (string, error)
}

type searchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &searchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"category", "tags", "is_public"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("clubs").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update clubs filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "member_count"}
	_, err = s.client.Index("clubs").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update clubs sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

func (s *searchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"clubs"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

type meiliClubDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
	MemberCount int      `json:"member_count"`
	OwnerName   string   `json:"owner_name"`
	CreatedAt   int64    `json:"created_at"`
}

// cleanContentForIndex strips markup and entities before the text is indexed.
func (s *searchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexClub(club *model.Club) error {
	doc := meiliClubDoc{
		ID:          club.ID.String(),
		Name:        club.Name,
		Description: s.cleanContentForIndex(club.Description),
		Category:    club.Category,
		Tags:        club.Tags,
		IsPublic:    club.IsPublic,
		MemberCount: len(club.Members),
		OwnerName:   club.Owner.Name,
		CreatedAt:   club.CreatedAt.Unix(),
	}

	task, err := s.client.Index("clubs").AddDocuments([]meiliClubDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed club %s, task id: %d", club.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteClub(id string) error {
	_, err := s.client.Index("clubs").DeleteDocument(id)
	return err
}

func (s *searchService) GenerateSearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	// Only public clubs are searchable from the frontend
	searchRules := map[string]any{
		"clubs": map[string]any{
			"filter": "is_public = true",
		},
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
