package blog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"blogapp/domain/entity"
	"blogapp/pkg/customerrors"

	"github.com/google/uuid"
)

const (
	homeBlogLimit   = 8
	headerListLimit = 3
	homeCacheTTL    = 30 * time.Second
)

const noDataPlaceholder = "N/A"

type BlogRepo interface {
	CreateBlog(ctx context.Context, blog entity.Blog) (entity.Blog, error)
	LatestBlogs(ctx context.Context, limit int) ([]entity.Blog, error)
	PopularBlogs(ctx context.Context, limit int) ([]entity.Blog, error)
	TrendingBlogs(ctx context.Context, limit int) ([]entity.Blog, error)
	CountBlogs(ctx context.Context) (int64, error)
	MostLikedBlog(ctx context.Context) (entity.Blog, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (entity.User, error)
	CountUsers(ctx context.Context) (int64, error)
	TopAuthor(ctx context.Context) (entity.User, error)
	TopAuthors(ctx context.Context, limit int) ([]entity.User, error)
	IncrementBlogCount(ctx context.Context, userID uuid.UUID) error
}

type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Delete(ctx context.Context, reference string) error
}

type PageCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type BlogUsecase struct {
	blogs    BlogRepo
	users    UserStore
	uploader Uploader
	cache    PageCache
}

// NewBlogUsecase wires the blog vertical. cache may be nil, in which case
// every home request hits the stores directly.
func NewBlogUsecase(blogs BlogRepo, users UserStore, uploader Uploader, cache PageCache) *BlogUsecase {
	return &BlogUsecase{
		blogs:    blogs,
		users:    users,
		uploader: uploader,
		cache:    cache,
	}
}

// CreateBlog validates the input, uploads the optional image and persists
// the blog under the authenticated author. categoriesJSON is an optional
// JSON-encoded string list; empty means no categories.
func (u *BlogUsecase) CreateBlog(ctx context.Context, userID uuid.UUID, title, content, categoriesJSON, imagePath string) (entity.Blog, error) {
	author, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, customerrors.ErrUserNotFound) {
			return entity.Blog{}, customerrors.NewNotFound("Login to post blog")
		}
		return entity.Blog{}, err
	}

	if title == "" || content == "" {
		return entity.Blog{}, customerrors.NewValidation("Title and content are required")
	}

	categories := []string{}
	if categoriesJSON != "" {
		if err := json.Unmarshal([]byte(categoriesJSON), &categories); err != nil {
			return entity.Blog{}, customerrors.NewValidation("Categories must be a JSON array of strings")
		}
	}

	image := ""
	if imagePath != "" {
		image, err = u.uploader.Upload(ctx, imagePath)
		if err != nil {
			return entity.Blog{}, customerrors.NewInternal("Something went wrong while creating blog")
		}
	}

	created, err := u.blogs.CreateBlog(ctx, entity.Blog{
		Title:      title,
		Content:    content,
		AuthorID:   author.ID,
		Categories: categories,
		Image:      image,
	})
	if err != nil {
		return entity.Blog{}, customerrors.NewInternal("Something went wrong while creating blog")
	}

	// Advisory counter; a failed bump must not fail the created blog.
	if err := u.users.IncrementBlogCount(ctx, author.ID); err != nil {
		slog.Warn("Failed to increment author blog count", "err", err, "author_id", author.ID)
	}

	return created, nil
}

// HomePage assembles the dashboard page model. userID may be uuid.Nil for
// anonymous visitors. Any store failure is reported as one internal error;
// there is no partial rendering.
func (u *BlogUsecase) HomePage(ctx context.Context, userID uuid.UUID) (entity.HomePage, error) {
	currentUser, err := u.resolveUser(ctx, userID)
	if err != nil {
		return entity.HomePage{}, customerrors.NewInternal("Something went wrong while fetching home page data")
	}

	cacheKey := "home:anon"
	if userID != uuid.Nil {
		cacheKey = "home:user:" + userID.String()
	}
	if u.cache != nil {
		if cached, err := u.cache.Get(ctx, cacheKey); err == nil {
			var page entity.HomePage
			if err := json.Unmarshal([]byte(cached), &page); err == nil {
				return page, nil
			}
		}
	}

	latest, err := u.blogs.LatestBlogs(ctx, homeBlogLimit)
	if err != nil {
		return entity.HomePage{}, customerrors.NewInternal("Something went wrong while fetching home page data")
	}
	popular, err := u.blogs.PopularBlogs(ctx, homeBlogLimit)
	if err != nil {
		return entity.HomePage{}, customerrors.NewInternal("Something went wrong while fetching home page data")
	}

	stats, err := u.statistics(ctx)
	if err != nil {
		return entity.HomePage{}, customerrors.NewInternal("Something went wrong while fetching home page data")
	}

	page := entity.HomePage{
		User:         currentUser,
		LatestBlogs:  latest,
		PopularBlogs: popular,
		Statistics:   stats,
	}

	if u.cache != nil {
		if encoded, err := json.Marshal(page); err == nil {
			if err := u.cache.Set(ctx, cacheKey, string(encoded), homeCacheTTL); err != nil {
				slog.Warn("Failed to cache home page model", "err", err)
			}
		}
	}

	return page, nil
}

// HeaderDetails returns the site header widgets: top authors by blog count
// and trending blogs by views.
func (u *BlogUsecase) HeaderDetails(ctx context.Context, userID uuid.UUID) (entity.HeaderDetails, error) {
	currentUser, err := u.resolveUser(ctx, userID)
	if err != nil {
		return entity.HeaderDetails{}, customerrors.NewInternal("Something went wrong while fetching header details")
	}

	authors, err := u.users.TopAuthors(ctx, headerListLimit)
	if err != nil {
		return entity.HeaderDetails{}, customerrors.NewInternal("Something went wrong while fetching header details")
	}
	trending, err := u.blogs.TrendingBlogs(ctx, headerListLimit)
	if err != nil {
		return entity.HeaderDetails{}, customerrors.NewInternal("Something went wrong while fetching header details")
	}

	topAuthors := make([]entity.PublicUser, 0, len(authors))
	for _, author := range authors {
		topAuthors = append(topAuthors, author.Public())
	}

	return entity.HeaderDetails{
		User:          currentUser,
		TopAuthors:    topAuthors,
		TrendingBlogs: trending,
	}, nil
}

// resolveUser loads and sanitizes the current user, or returns nil for
// anonymous and unknown IDs. A stale cookie must not break a public page.
func (u *BlogUsecase) resolveUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	user, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, customerrors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (u *BlogUsecase) statistics(ctx context.Context) (entity.Statistics, error) {
	totalUsers, err := u.users.CountUsers(ctx)
	if err != nil {
		return entity.Statistics{}, err
	}
	totalBlogs, err := u.blogs.CountBlogs(ctx)
	if err != nil {
		return entity.Statistics{}, err
	}

	topAuthor := noDataPlaceholder
	author, err := u.users.TopAuthor(ctx)
	switch {
	case err == nil:
		topAuthor = author.Username
	case !errors.Is(err, customerrors.ErrUserNotFound):
		return entity.Statistics{}, err
	}

	mostLiked := noDataPlaceholder
	blog, err := u.blogs.MostLikedBlog(ctx)
	switch {
	case err == nil:
		mostLiked = blog.Title
	case !errors.Is(err, customerrors.ErrBlogNotFound):
		return entity.Statistics{}, err
	}

	return entity.Statistics{
		TotalUsers:    totalUsers,
		TotalBlogs:    totalBlogs,
		TopAuthor:     topAuthor,
		MostLikedBlog: mostLiked,
	}, nil
}
