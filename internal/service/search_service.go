package service

import (
	"encoding/json"
	"html"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService keeps the meilisearch "blogs" index in step with the
// database and answers full-text queries with ranked blog ids. All of
// it degrades to a no-op when no meilisearch client is configured; the
// blog service then falls back to plain title matching in SQL.
type SearchService interface {
	IndexBlog(blog *model.Blog) error
	DeleteBlog(id string) error
	SearchBlogIDs(query string, skip, limit int) ([]uuid.UUID, int64, error)
	Enabled() bool
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) Enabled() bool {
	return s.client != nil
}

func (s *searchService) initIndexes() {
	sortableAttrs := []string{"published_at", "total_reads"}
	if _, err := s.client.Index("blogs").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update blogs sortable attributes: %v", err)
	}
	log.Println("Meilisearch indexes initialized")
}

type meiliBlogDoc struct {
	ID          string          `json:"id"`
	BlogID      string          `json:"blog_id"`
	Title       string          `json:"title"`
	Des         string          `json:"des"`
	Content     string          `json:"content"`
	Tags        []string        `json:"tags"`
	Author      meiliUserSubset `json:"author"`
	TotalReads  int64           `json:"total_reads"`
	PublishedAt int64           `json:"published_at"`
}

type meiliUserSubset struct {
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}

// textFromBlocks flattens the editor's block list into plain text for
// indexing. Block shapes are opaque to us, so it just collects every
// string value found in the block data.
func (s *searchService) textFromBlocks(content json.RawMessage) string {
	var payload struct {
		Blocks []struct {
			Data map[string]any `json:"data"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(content, &payload); err != nil {
		return ""
	}

	var parts []string
	for _, block := range payload.Blocks {
		for _, value := range block.Data {
			switch v := value.(type) {
			case string:
				parts = append(parts, v)
			case []any:
				for _, item := range v {
					if str, ok := item.(string); ok {
						parts = append(parts, str)
					}
				}
			}
		}
	}

	cleaned := html.UnescapeString(s.sanitizer.Sanitize(strings.Join(parts, " ")))
	return strings.Join(strings.Fields(cleaned), " ")
}

func (s *searchService) IndexBlog(blog *model.Blog) error {
	if s.client == nil {
		return nil
	}

	doc := meiliBlogDoc{
		ID:          blog.ID.String(),
		BlogID:      blog.BlogID,
		Title:       blog.Title,
		Des:         blog.Des,
		Content:     s.textFromBlocks(blog.Content),
		Tags:        blog.Tags,
		TotalReads:  blog.TotalReads,
		PublishedAt: blog.PublishedAt.Unix(),
		Author: meiliUserSubset{
			Username:   blog.Author.Username,
			ProfileImg: blog.Author.ProfileImg,
		},
	}

	task, err := s.client.Index("blogs").AddDocuments([]meiliBlogDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed blog %s, task id: %d", blog.BlogID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteBlog(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index("blogs").DeleteDocument(id)
	return err
}

func (s *searchService) SearchBlogIDs(query string, skip, limit int) ([]uuid.UUID, int64, error) {
	if s.client == nil {
		return nil, 0, nil
	}

	resp, err := s.client.Index("blogs").Search(query, &meilisearch.SearchRequest{
		Offset: int64(skip),
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, 0, err
	}

	return idsFromHits(resp.Hits), resp.EstimatedTotalHits, nil
}

// idsFromHits decodes the document ids out of a search response,
// skipping hits that carry no parseable id.
func idsFromHits(hits []meilisearch.Hit) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		var raw string
		if err := json.Unmarshal(hit["id"], &raw); err != nil {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func strPtr(s string) *string {
	return &s
}
