package blog

import (
	"context"
	"errors"
	"sync"
	"time"

	"blogapp/domain/entity"
	"blogapp/pkg/customerrors"

	"github.com/google/uuid"
)

// fakeBlogRepo is an in-memory BlogRepo with error injection and call
// counting for cache assertions.
type fakeBlogRepo struct {
	mu        sync.Mutex
	blogs     []entity.Blog
	createErr error
	listErr   error
	listCalls int
}

func (f *fakeBlogRepo) CreateBlog(_ context.Context, blog entity.Blog) (entity.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return entity.Blog{}, f.createErr
	}
	blog.ID = uuid.New()
	blog.CreatedAt = time.Now()
	f.blogs = append(f.blogs, blog)
	return blog, nil
}

func (f *fakeBlogRepo) LatestBlogs(_ context.Context, limit int) ([]entity.Blog, error) {
	return f.list(limit)
}

func (f *fakeBlogRepo) PopularBlogs(_ context.Context, limit int) ([]entity.Blog, error) {
	return f.list(limit)
}

func (f *fakeBlogRepo) TrendingBlogs(_ context.Context, limit int) ([]entity.Blog, error) {
	return f.list(limit)
}

func (f *fakeBlogRepo) list(limit int) ([]entity.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.blogs) < limit {
		limit = len(f.blogs)
	}
	out := make([]entity.Blog, limit)
	copy(out, f.blogs[:limit])
	return out, nil
}

func (f *fakeBlogRepo) CountBlogs(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.blogs)), nil
}

func (f *fakeBlogRepo) MostLikedBlog(_ context.Context) (entity.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.blogs) == 0 {
		return entity.Blog{}, customerrors.ErrBlogNotFound
	}
	best := f.blogs[0]
	for _, b := range f.blogs[1:] {
		if b.Likes > best.Likes {
			best = b
		}
	}
	return best, nil
}

type fakeUserStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]entity.User
	blogCounts map[uuid.UUID]int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:      make(map[uuid.UUID]entity.User),
		blogCounts: make(map[uuid.UUID]int),
	}
}

func (f *fakeUserStore) addUser(username string) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := entity.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) GetUserByID(_ context.Context, userID uuid.UUID) (entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return entity.User{}, customerrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) CountUsers(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) TopAuthor(_ context.Context) (entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best entity.User
	found := false
	for id, user := range f.users {
		if !found || f.blogCounts[id] > f.blogCounts[best.ID] {
			best = user
			found = true
		}
	}
	if !found {
		return entity.User{}, customerrors.ErrUserNotFound
	}
	return best, nil
}

func (f *fakeUserStore) TopAuthors(_ context.Context, limit int) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]entity.User, 0, limit)
	for _, user := range f.users {
		if len(users) == limit {
			break
		}
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeUserStore) IncrementBlogCount(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blogCounts[userID]++
	return nil
}

type fakeUploader struct {
	url     string
	err     error
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (string, error) {
	f.uploads = append(f.uploads, localPath)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeUploader) Delete(_ context.Context, _ string) error {
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.entries[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return val, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.sets++
	return nil
}
