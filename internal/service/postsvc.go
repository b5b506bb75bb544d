package service

import (
	"context"
	"strings"

	"practicalprague/internal/domain"
)

const (
	DefaultLatestLimit  = 5
	DefaultRelatedLimit = 4
	maxListLimit        = 50
)

// PostsStore is the content source. Published-only queries never return
// drafts; the Admin variants ignore status.
type PostsStore interface {
	FeaturedPosts(ctx context.Context) ([]domain.PostSummary, error)
	LatestPosts(ctx context.Context, limit int) ([]domain.PostSummary, error)
	PostsByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error)
	AllPosts(ctx context.Context) ([]domain.PostSummary, error)
	PostBySlug(ctx context.Context, slug string) (domain.Post, error)
	RelatedPosts(ctx context.Context, postID string, categoryIDs []string, limit int) ([]domain.PostSummary, error)
	PostBySlugAdmin(ctx context.Context, slug string) (domain.Post, error)
	DraftPosts(ctx context.Context) ([]domain.PostSummary, error)
}

type PostsService struct {
	Store PostsStore
}

func (s *PostsService) Featured(ctx context.Context) ([]domain.PostSummary, error) {
	return s.Store.FeaturedPosts(ctx)
}

func (s *PostsService) Latest(ctx context.Context, limit int) ([]domain.PostSummary, error) {
	return s.Store.LatestPosts(ctx, clampLimit(limit, DefaultLatestLimit))
}

func (s *PostsService) ByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error) {
	categorySlug = strings.TrimSpace(categorySlug)
	if !validSlug(categorySlug) {
		return nil, domain.NewValidationError(map[string]string{"category": "invalid slug"})
	}
	return s.Store.PostsByCategory(ctx, categorySlug)
}

func (s *PostsService) All(ctx context.Context) ([]domain.PostSummary, error) {
	return s.Store.AllPosts(ctx)
}

func (s *PostsService) Article(ctx context.Context, slug string) (domain.Post, error) {
	if !validSlug(slug) {
		return domain.Post{}, domain.ErrNotFound
	}
	return s.Store.PostBySlug(ctx, slug)
}

// Related returns posts sharing a category with p. A post without categories
// has no related posts.
func (s *PostsService) Related(ctx context.Context, p domain.Post, limit int) ([]domain.PostSummary, error) {
	ids := p.CategoryIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	return s.Store.RelatedPosts(ctx, p.ID, ids, clampLimit(limit, DefaultRelatedLimit))
}

func (s *PostsService) Preview(ctx context.Context, slug string) (domain.Post, error) {
	if !validSlug(slug) {
		return domain.Post{}, domain.ErrNotFound
	}
	return s.Store.PostBySlugAdmin(ctx, slug)
}

func (s *PostsService) Drafts(ctx context.Context) ([]domain.PostSummary, error) {
	return s.Store.DraftPosts(ctx)
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// validSlug accepts the characters the CMS slugifier produces.
func validSlug(s string) bool {
	if s == "" || len(s) > 96 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
