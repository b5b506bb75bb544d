package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"practicalprague/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostsStore serves content from a Postgres mirror of the CMS dataset.
type PostsStore struct {
	pool *pgxpool.Pool
}

func NewPostsStore(pool *pgxpool.Pool) *PostsStore {
	return &PostsStore{pool: pool}
}

const summaryColumns = `
	p.id, p.title, p.slug, p.excerpt, p.published_at, p.status,
	COALESCE(
		array_agg(c.title ORDER BY pc.position) FILTER (WHERE c.id IS NOT NULL),
		'{}'
	) AS categories
`

const summaryJoins = `
	FROM posts p
	LEFT JOIN post_categories pc ON pc.post_id = p.id
	LEFT JOIN categories c ON c.id = pc.category_id
`

func (s *PostsStore) FeaturedPosts(ctx context.Context) ([]domain.PostSummary, error) {
	q := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE p.status = 'published' AND p.featured
		GROUP BY p.id
		ORDER BY p.published_at DESC NULLS LAST
		LIMIT 4
	`
	return s.listSummaries(ctx, "featured posts", q)
}

func (s *PostsStore) LatestPosts(ctx context.Context, limit int) ([]domain.PostSummary, error) {
	q := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE p.status = 'published'
		GROUP BY p.id
		ORDER BY p.published_at DESC NULLS LAST
		LIMIT $1
	`
	return s.listSummaries(ctx, "latest posts", q, limit)
}

func (s *PostsStore) PostsByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error) {
	q := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE p.status = 'published'
		  AND EXISTS (
			SELECT 1
			FROM post_categories pc2
			JOIN categories c2 ON c2.id = pc2.category_id
			WHERE pc2.post_id = p.id AND c2.slug = $1
		  )
		GROUP BY p.id
		ORDER BY p.published_at DESC NULLS LAST
	`
	return s.listSummaries(ctx, "posts by category", q, categorySlug)
}

func (s *PostsStore) AllPosts(ctx context.Context) ([]domain.PostSummary, error) {
	q := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE p.status = 'published'
		GROUP BY p.id
		ORDER BY p.published_at DESC NULLS LAST
	`
	return s.listSummaries(ctx, "all posts", q)
}

func (s *PostsStore) RelatedPosts(ctx context.Context, postID string, categoryIDs []string, limit int) ([]domain.PostSummary, error) {
	if len(categoryIDs) == 0 {
		return []domain.PostSummary{}, nil
	}
	q := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE p.status = 'published'
		  AND p.id <> $1
		  AND EXISTS (
			SELECT 1 FROM post_categories pc2
			WHERE pc2.post_id = p.id AND pc2.category_id = ANY($2)
		  )
		GROUP BY p.id
		ORDER BY p.published_at DESC NULLS LAST
		LIMIT $3
	`
	return s.listSummaries(ctx, "related posts", q, postID, pgtype.FlatArray[string](categoryIDs), limit)
}

func (s *PostsStore) DraftPosts(ctx context.Context) ([]domain.PostSummary, error) {
	q := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE p.status = 'draft'
		GROUP BY p.id
		ORDER BY p.updated_at DESC
	`
	return s.listSummaries(ctx, "draft posts", q)
}

func (s *PostsStore) PostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return s.getPost(ctx, slug, true)
}

func (s *PostsStore) PostBySlugAdmin(ctx context.Context, slug string) (domain.Post, error) {
	return s.getPost(ctx, slug, false)
}

func (s *PostsStore) listSummaries(ctx context.Context, what, q string, args ...any) ([]domain.PostSummary, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()

	out := []domain.PostSummary{}
	for rows.Next() {
		var (
			p           domain.PostSummary
			publishedTS pgtype.Timestamptz
			status      string
			categories  pgtype.FlatArray[string]
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &publishedTS, &status, &categories); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.PublishedAt = timestamptzOrZero(publishedTS)
		p.Status = domain.PostStatus(status)
		p.Categories = textArrayOrEmpty(categories)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}

	return out, nil
}

func (s *PostsStore) getPost(ctx context.Context, slug string, publishedOnly bool) (domain.Post, error) {
	const q = `
		SELECT id, title, slug, excerpt, published_at, status, author,
		       body, main_image, featured_image, meta_title, meta_description
		FROM posts
		WHERE slug = $1 AND ($2::boolean = false OR status = 'published')
	`

	var (
		p             domain.Post
		publishedTS   pgtype.Timestamptz
		status        string
		author        pgtype.Text
		body          []byte
		mainImage     []byte
		featuredImage []byte
		metaTitle     pgtype.Text
		metaDesc      pgtype.Text
	)
	err := s.pool.QueryRow(ctx, q, slug, publishedOnly).Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&publishedTS,
		&status,
		&author,
		&body,
		&mainImage,
		&featuredImage,
		&metaTitle,
		&metaDesc,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, fmt.Errorf("get post: %w", err)
	}

	p.PublishedAt = timestamptzOrZero(publishedTS)
	p.Status = domain.PostStatus(status)
	p.Author = textOrEmpty(author)
	p.MetaTitle = textOrEmpty(metaTitle)
	p.MetaDescription = textOrEmpty(metaDesc)

	if len(body) > 0 {
		if err := json.Unmarshal(body, &p.Body); err != nil {
			return domain.Post{}, fmt.Errorf("decode post body: %w", err)
		}
	}
	if p.MainImage, err = imageOrNil(mainImage); err != nil {
		return domain.Post{}, err
	}
	if p.FeaturedImage, err = imageOrNil(featuredImage); err != nil {
		return domain.Post{}, err
	}

	cats, err := s.postCategories(ctx, p.ID)
	if err != nil {
		return domain.Post{}, err
	}
	p.CategoryRefs = cats
	p.Categories = make([]string, 0, len(cats))
	for _, c := range cats {
		p.Categories = append(p.Categories, c.Title)
	}

	return p, nil
}

func (s *PostsStore) postCategories(ctx context.Context, postID string) ([]domain.Category, error) {
	const q = `
		SELECT c.id, c.title, c.slug
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = $1
		ORDER BY pc.position
	`

	rows, err := s.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("list post categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list post categories: %w", err)
	}
	return out, nil
}
