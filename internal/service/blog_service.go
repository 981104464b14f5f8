package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/pkg/apperror"
)

const blogsPerPage = 5

type BlogInput struct {
	Title   string
	Des     string
	Banner  string
	Content json.RawMessage
	Tags    []string
	Draft   bool
	// BlogID set means edit the existing blog instead of creating.
	BlogID string
}

type BlogSearchInput struct {
	Tag           string
	Query         string
	Author        string
	Page          int
	Limit         int
	EliminateBlog string
}

type BlogService interface {
	PublishBlog(ctx context.Context, userID uuid.UUID, in BlogInput) (string, error)
	GetBlog(ctx context.Context, blogID string, draft bool, mode string) (*model.Blog, error)
	LatestBlogs(ctx context.Context, page int) ([]model.Blog, error)
	CountLatestBlogs(ctx context.Context) (int64, error)
	TrendingBlogs(ctx context.Context) ([]model.Blog, error)
	SearchBlogs(ctx context.Context, in BlogSearchInput) ([]model.Blog, error)
	CountSearchBlogs(ctx context.Context, in BlogSearchInput) (int64, error)
	UserWrittenBlogs(ctx context.Context, userID uuid.UUID, page int, draft bool, query string, deletedDocCount int) ([]model.Blog, error)
	CountUserWrittenBlogs(ctx context.Context, userID uuid.UUID, draft bool, query string) (int64, error)
	DeleteBlog(ctx context.Context, userID uuid.UUID, blogID string) error
}

type blogService struct {
	blogRepo      repository.BlogRepository
	userRepo      repository.UserRepository
	searchService SearchService
}

func NewBlogService(blogRepo repository.BlogRepository, userRepo repository.UserRepository, searchService SearchService) BlogService {
	return &blogService{
		blogRepo:      blogRepo,
		userRepo:      userRepo,
		searchService: searchService,
	}
}

func (s *blogService) validate(in BlogInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperror.New(http.StatusForbidden, "you must provide a title", nil)
	}
	if in.Draft {
		return nil
	}

	if l := len(strings.TrimSpace(in.Des)); l == 0 || l > 200 {
		return apperror.New(http.StatusForbidden, "you must provide blog description under 200 characters", nil)
	}
	if strings.TrimSpace(in.Banner) == "" {
		return apperror.New(http.StatusForbidden, "you must provide blog banner to publish it", nil)
	}

	var payload struct {
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(in.Content, &payload); err != nil || len(payload.Blocks) == 0 {
		return apperror.New(http.StatusForbidden, "there must be some blog content to publish it", nil)
	}

	if len(in.Tags) == 0 || len(in.Tags) > 10 {
		return apperror.New(http.StatusForbidden, "provide tags in order to publish the blog, maximum 10", nil)
	}
	return nil
}

// PublishBlog creates or updates a blog and returns its public id.
// Drafts skip most validation so work in progress can be saved early.
func (s *blogService) PublishBlog(ctx context.Context, userID uuid.UUID, in BlogInput) (string, error) {
	if err := s.validate(in); err != nil {
		return "", err
	}

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tags = append(tags, strings.ToLower(tag))
	}

	if in.BlogID != "" {
		existing, err := s.blogRepo.FindByBlogID(ctx, in.BlogID, false)
		if err != nil {
			return "", apperror.New(http.StatusNotFound, "blog not found", apperror.ErrNotFound)
		}
		if existing.AuthorID != userID {
			return "", apperror.New(http.StatusForbidden, "you can not edit this blog", apperror.ErrForbidden)
		}

		updates := map[string]any{
			"title":   in.Title,
			"des":     in.Des,
			"banner":  in.Banner,
			"content": in.Content,
			"tags":    mustJSON(tags),
			"draft":   in.Draft,
		}
		if err := s.blogRepo.UpdateByBlogID(ctx, in.BlogID, updates); err != nil {
			return "", err
		}
		s.reindex(ctx, in.BlogID)
		return in.BlogID, nil
	}

	blog := &model.Blog{
		BlogID:   makeBlogID(in.Title),
		Title:    in.Title,
		Des:      in.Des,
		Banner:   in.Banner,
		Content:  in.Content,
		Tags:     tags,
		AuthorID: userID,
		Draft:    in.Draft,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return "", err
	}
	s.reindex(ctx, blog.BlogID)
	return blog.BlogID, nil
}

func (s *blogService) reindex(ctx context.Context, blogID string) {
	if !s.searchService.Enabled() {
		return
	}
	blog, err := s.blogRepo.FindByBlogID(ctx, blogID, true)
	if err != nil {
		log.Printf("failed to load blog %s for indexing: %v", blogID, err)
		return
	}
	if blog.Draft {
		_ = s.searchService.DeleteBlog(blog.ID.String())
		return
	}
	if err := s.searchService.IndexBlog(blog); err != nil {
		log.Printf("failed to index blog %s: %v", blogID, err)
	}
}

// GetBlog loads a blog by public id. Every non-edit read bumps the
// blog's and the author's read counters.
func (s *blogService) GetBlog(ctx context.Context, blogID string, draft bool, mode string) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByBlogID(ctx, blogID, true)
	if err != nil {
		return nil, apperror.New(http.StatusNotFound, "blog not found", apperror.ErrNotFound)
	}

	if blog.Draft && !draft {
		return nil, apperror.New(http.StatusForbidden, "you can not access draft blogs", apperror.ErrForbidden)
	}

	if mode != "edit" {
		if err := s.blogRepo.IncReads(ctx, blog.ID, 1); err != nil {
			return nil, err
		}
		if err := s.userRepo.IncTotalReads(ctx, blog.AuthorID, 1); err != nil {
			return nil, err
		}
		blog.TotalReads++
	}

	return blog, nil
}

func pageToSkip(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

func (s *blogService) LatestBlogs(ctx context.Context, page int) ([]model.Blog, error) {
	return s.blogRepo.Latest(ctx, pageToSkip(page, blogsPerPage), blogsPerPage)
}

func (s *blogService) CountLatestBlogs(ctx context.Context) (int64, error) {
	return s.blogRepo.CountLatest(ctx)
}

func (s *blogService) TrendingBlogs(ctx context.Context) ([]model.Blog, error) {
	return s.blogRepo.Trending(ctx, blogsPerPage)
}

func (s *blogService) searchFilter(ctx context.Context, in BlogSearchInput) (repository.BlogSearchFilter, error) {
	filter := repository.BlogSearchFilter{
		Tag:           strings.ToLower(in.Tag),
		Query:         in.Query,
		EliminateBlog: in.EliminateBlog,
	}
	if in.Author != "" {
		author, err := uuid.Parse(in.Author)
		if err != nil {
			return filter, apperror.New(http.StatusBadRequest, "invalid author id", apperror.ErrBadRequest)
		}
		filter.AuthorID = &author
	}
	return filter, nil
}

func (s *blogService) SearchBlogs(ctx context.Context, in BlogSearchInput) ([]model.Blog, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = blogsPerPage
	}
	skip := pageToSkip(in.Page, limit)

	// Free-text queries go through the search index when available;
	// tag and author filters always resolve in SQL.
	if in.Query != "" && in.Tag == "" && in.Author == "" && s.searchService.Enabled() {
		ids, _, err := s.searchService.SearchBlogIDs(in.Query, skip, limit)
		if err == nil {
			blogs, err := s.blogRepo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return orderByIDs(blogs, ids), nil
		}
		log.Printf("meilisearch query failed, falling back to sql: %v", err)
	}

	filter, err := s.searchFilter(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.blogRepo.Search(ctx, filter, skip, limit)
}

func (s *blogService) CountSearchBlogs(ctx context.Context, in BlogSearchInput) (int64, error) {
	if in.Query != "" && in.Tag == "" && in.Author == "" && s.searchService.Enabled() {
		_, total, err := s.searchService.SearchBlogIDs(in.Query, 0, 1)
		if err == nil {
			return total, nil
		}
		log.Printf("meilisearch count failed, falling back to sql: %v", err)
	}

	filter, err := s.searchFilter(ctx, in)
	if err != nil {
		return 0, err
	}
	return s.blogRepo.CountSearch(ctx, filter)
}

// UserWrittenBlogs pages through the user's own dashboard listing.
// deletedDocCount compensates for blogs the client already removed
// from loaded pages so the next batch does not skip entries.
func (s *blogService) UserWrittenBlogs(ctx context.Context, userID uuid.UUID, page int, draft bool, query string, deletedDocCount int) ([]model.Blog, error) {
	skip := pageToSkip(page, blogsPerPage) - deletedDocCount
	if skip < 0 {
		skip = 0
	}
	return s.blogRepo.ByAuthor(ctx, userID, draft, query, skip, blogsPerPage)
}

func (s *blogService) CountUserWrittenBlogs(ctx context.Context, userID uuid.UUID, draft bool, query string) (int64, error) {
	return s.blogRepo.CountByAuthor(ctx, userID, draft, query)
}

func (s *blogService) DeleteBlog(ctx context.Context, userID uuid.UUID, blogID string) error {
	blog, err := s.blogRepo.FindByBlogID(ctx, blogID, false)
	if err != nil {
		return apperror.New(http.StatusNotFound, "blog not found", apperror.ErrNotFound)
	}
	if blog.AuthorID != userID {
		return apperror.New(http.StatusForbidden, "you can not delete this blog", apperror.ErrForbidden)
	}

	if err := s.blogRepo.Delete(ctx, blog); err != nil {
		return err
	}
	if err := s.searchService.DeleteBlog(blog.ID.String()); err != nil {
		log.Printf("failed to remove blog %s from search index: %v", blogID, err)
	}
	return nil
}

// makeBlogID derives a url-safe public id from the title plus a random
// suffix so identical titles never collide.
func makeBlogID(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if slug == "" {
		return suffix
	}
	return fmt.Sprintf("%s-%s", slug, suffix)
}

// orderByIDs re-sorts the fetched blogs into the search index's ranking.
func orderByIDs(blogs []model.Blog, ids []uuid.UUID) []model.Blog {
	byID := make(map[uuid.UUID]model.Blog, len(blogs))
	for _, b := range blogs {
		byID[b.ID] = b
	}
	ordered := make([]model.Blog, 0, len(blogs))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

func mustJSON(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}
