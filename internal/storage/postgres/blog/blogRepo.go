package blog

import (
	"context"
	"errors"
	"time"

	"blogapp/domain/entity"
	metrics "blogapp/internal/metrics"
	"blogapp/pkg/customerrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogRepo struct {
	pool    *pgxpool.Pool
	Metrics *metrics.Metrics
}

func NewBlogRepo(pool *pgxpool.Pool, metrics *metrics.Metrics) *BlogRepo {
	return &BlogRepo{
		pool:    pool,
		Metrics: metrics,
	}
}

// CreateBlog inserts the blog and returns it with the generated ID and
// timestamp filled in. The author FK constraint guarantees the author row
// exists at insert time.
func (r *BlogRepo) CreateBlog(ctx context.Context, blog entity.Blog) (entity.Blog, error) {
	var err error
	defer func(start time.Time) {
		r.Metrics.ObserveDB("insert_blog", start, err)
	}(time.Now())

	blog.ID = uuid.New()
	if blog.Categories == nil {
		blog.Categories = []string{}
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO blogs (id, title, content, author_id, categories, image)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING likes, views, created_at`,
		blog.ID, blog.Title, blog.Content, blog.AuthorID, blog.Categories, blog.Image,
	).Scan(&blog.Likes, &blog.Views, &blog.CreatedAt)
	if err != nil {
		return entity.Blog{}, err
	}
	return blog, nil
}

// LatestBlogs returns the most recent blogs with author identity joined.
func (r *BlogRepo) LatestBlogs(ctx context.Context, limit int) ([]entity.Blog, error) {
	return r.listBlogs(ctx, "select_latest_blogs", `ORDER BY b.created_at DESC`, limit)
}

// PopularBlogs returns the highest-liked blogs with author identity joined.
func (r *BlogRepo) PopularBlogs(ctx context.Context, limit int) ([]entity.Blog, error) {
	return r.listBlogs(ctx, "select_popular_blogs", `ORDER BY b.likes DESC`, limit)
}

// TrendingBlogs returns the most viewed blogs with author identity joined.
func (r *BlogRepo) TrendingBlogs(ctx context.Context, limit int) ([]entity.Blog, error) {
	return r.listBlogs(ctx, "select_trending_blogs", `ORDER BY b.views DESC`, limit)
}

func (r *BlogRepo) listBlogs(ctx context.Context, queryName, orderBy string, limit int) (blogs []entity.Blog, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB(queryName, start, err)
	}(time.Now())

	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.title, b.content, b.author_id, b.categories, b.image, b.likes, b.views, b.created_at,
		        u.id, u.username, u.avatar
		 FROM blogs b
		 JOIN users u ON u.id = b.author_id `+orderBy+` LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var blog entity.Blog
		var author entity.BlogAuthor
		if err = rows.Scan(
			&blog.ID,
			&blog.Title,
			&blog.Content,
			&blog.AuthorID,
			&blog.Categories,
			&blog.Image,
			&blog.Likes,
			&blog.Views,
			&blog.CreatedAt,
			&author.ID,
			&author.Username,
			&author.Avatar,
		); err != nil {
			return nil, err
		}
		blog.Author = &author
		blogs = append(blogs, blog)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *BlogRepo) CountBlogs(ctx context.Context) (count int64, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("count_blogs", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&count)
	return count, err
}

// MostLikedBlog returns the single highest-liked blog.
func (r *BlogRepo) MostLikedBlog(ctx context.Context) (blog entity.Blog, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("select_most_liked_blog", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx,
		`SELECT id, title, content, author_id, categories, image, likes, views, created_at
		 FROM blogs ORDER BY likes DESC LIMIT 1`).Scan(
		&blog.ID,
		&blog.Title,
		&blog.Content,
		&blog.AuthorID,
		&blog.Categories,
		&blog.Image,
		&blog.Likes,
		&blog.Views,
		&blog.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Blog{}, customerrors.ErrBlogNotFound
	}
	if err != nil {
		return entity.Blog{}, err
	}
	return blog, nil
}
