package user

import (
	"context"
	"errors"
	"time"

	"blogapp/domain/entity"
	metrics "blogapp/internal/metrics"
	"blogapp/pkg/customerrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool    *pgxpool.Pool
	Metrics *metrics.Metrics
}

func NewUserRepo(pool *pgxpool.Pool, metrics *metrics.Metrics) *UserRepo {
	return &UserRepo{
		pool:    pool,
		Metrics: metrics,
	}
}

// CreateUser hashes the password and inserts the user. Username/email
// uniqueness is enforced by the database constraints, not a prior read, so
// concurrent registrations cannot both succeed.
func (r *UserRepo) CreateUser(ctx context.Context, email, username, password string) (entity.User, error) {
	var err error
	defer func(start time.Time) {
		r.Metrics.ObserveDB("insert_user", start, err)
	}(time.Now())

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, err
	}

	user := entity.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, username, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		user.ID, user.Email, user.Username, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.User{}, customerrors.ErrDuplicateUser
		}
		return entity.User{}, err
	}
	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (user entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("select_user_by_id", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx,
		`SELECT id, email, username, password_hash, COALESCE(refresh_token, ''), avatar, blog_count, follower_count, created_at
		 FROM users WHERE id = $1`, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.Avatar,
		&user.BlogCount,
		&user.FollowerCount,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, customerrors.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, err
	}
	return user, nil
}

// GetUserByLogin resolves a user by username or email.
func (r *UserRepo) GetUserByLogin(ctx context.Context, login string) (user entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("select_user_by_login", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx,
		`SELECT id, email, username, password_hash, COALESCE(refresh_token, ''), avatar, blog_count, follower_count, created_at
		 FROM users WHERE username = $1 OR email = $1`, login).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.Avatar,
		&user.BlogCount,
		&user.FollowerCount,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, customerrors.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, err
	}
	return user, nil
}

func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (exists bool, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("select_user_exists", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email).Scan(&exists)
	return exists, err
}

// StoreRefreshToken overwrites the single currently-valid refresh token for
// the user. Last writer wins under concurrent logins.
func (r *UserRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string) (err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("update_refresh_token", start, err)
	}(time.Now())

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $1 WHERE id = $2`, token, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		err = customerrors.ErrUserNotFound
		return err
	}
	return nil
}

func (r *UserRepo) CountUsers(ctx context.Context) (count int64, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("count_users", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// TopAuthor returns the user with the highest blog count.
func (r *UserRepo) TopAuthor(ctx context.Context) (user entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("select_top_author", start, err)
	}(time.Now())

	err = r.pool.QueryRow(ctx,
		`SELECT id, email, username, avatar, blog_count, follower_count, created_at
		 FROM users ORDER BY blog_count DESC LIMIT 1`).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Avatar,
		&user.BlogCount,
		&user.FollowerCount,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, customerrors.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, err
	}
	return user, nil
}

func (r *UserRepo) TopAuthors(ctx context.Context, limit int) (users []entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("select_top_authors", start, err)
	}(time.Now())

	rows, err := r.pool.Query(ctx,
		`SELECT id, email, username, avatar, blog_count, follower_count, created_at
		 FROM users ORDER BY blog_count DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user entity.User
		if err = rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.Avatar,
			&user.BlogCount,
			&user.FollowerCount,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// IncrementBlogCount bumps the author's derived counter. The counter is
// advisory and maintained outside the blog insert transaction.
func (r *UserRepo) IncrementBlogCount(ctx context.Context, userID uuid.UUID) (err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveDB("increment_blog_count", start, err)
	}(time.Now())

	_, err = r.pool.Exec(ctx,
		`UPDATE users SET blog_count = blog_count + 1 WHERE id = $1`, userID)
	return err
}
