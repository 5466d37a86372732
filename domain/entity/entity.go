package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user with credential and session state.
// PasswordHash and RefreshToken never leave the server; use Public() before
// returning a user to a client.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	RefreshToken  string    `json:"-"`
	Avatar        string    `json:"avatar"`
	BlogCount     int       `json:"blog_count"`
	FollowerCount int       `json:"follower_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublicUser is the client-facing shape of a user, with credential and
// session fields stripped.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar"`
	BlogCount     int       `json:"blogCount"`
	FollowerCount int       `json:"followerCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Avatar:        u.Avatar,
		BlogCount:     u.BlogCount,
		FollowerCount: u.FollowerCount,
		CreatedAt:     u.CreatedAt,
	}
}

// BlogAuthor is the subset of user identity joined onto blog listings.
type BlogAuthor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

// Blog is a single post. Author is populated on reads that join the users
// table and is nil otherwise.
type Blog struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	AuthorID   uuid.UUID   `json:"authorId"`
	Author     *BlogAuthor `json:"author,omitempty"`
	Categories []string    `json:"categories"`
	Image      string      `json:"image"`
	Likes      int         `json:"likes"`
	Views      int         `json:"views"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// TokenPair is one issued access/refresh credential pair. The refresh token
// is also persisted on the user row; issuing a new pair invalidates the
// previous one.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Statistics are the dashboard aggregates. TopAuthor and MostLikedBlog hold
// "N/A" when the corresponding store is empty.
type Statistics struct {
	TotalUsers    int64  `json:"totalUsers"`
	TotalBlogs    int64  `json:"totalBlogs"`
	TopAuthor     string `json:"topAuthor"`
	MostLikedBlog string `json:"mostLikedBlog"`
}

// HomePage is the page model assembled for GET /home.
type HomePage struct {
	User         *PublicUser `json:"user"`
	LatestBlogs  []Blog      `json:"latestBlogs"`
	PopularBlogs []Blog      `json:"popularBlogs"`
	Statistics   Statistics  `json:"statistics"`
}

// HeaderDetails is the payload for the site header widgets.
type HeaderDetails struct {
	User          *PublicUser  `json:"user"`
	TopAuthors    []PublicUser `json:"topAuthors"`
	TrendingBlogs []Blog       `json:"trendingBlogs"`
}
