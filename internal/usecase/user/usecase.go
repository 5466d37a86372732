package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"blogapp/domain/entity"
	"blogapp/pkg/customerrors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserRepo interface {
	// CreateUser persists a new user; the repo hashes the password.
	CreateUser(ctx context.Context, email, username, password string) (entity.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (entity.User, error)
	// GetUserByLogin resolves a user by username or email.
	GetUserByLogin(ctx context.Context, login string) (entity.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// StoreRefreshToken overwrites the user's single valid refresh token.
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
}

type TokenManager interface {
	NewAccessToken(userID uuid.UUID) (string, error)
	NewRefreshToken(userID uuid.UUID) (string, error)
	VerifyRefreshToken(token string) (uuid.UUID, error)
}

type UserUsecase struct {
	repo   UserRepo
	tokens TokenManager
}

func NewUserUsecase(repo UserRepo, tokens TokenManager) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		tokens: tokens,
	}
}

// Register validates the input, creates the user and issues the first token
// pair. Usernames are stored lowercased.
func (u *UserUsecase) Register(ctx context.Context, email, username, password string) (entity.User, entity.TokenPair, error) {
	if email == "" || username == "" || password == "" {
		return entity.User{}, entity.TokenPair{}, customerrors.NewValidation("All fields are required")
	}
	if !emailPattern.MatchString(email) {
		return entity.User{}, entity.TokenPair{}, customerrors.NewValidation("Invalid email address")
	}
	if len(password) < minPasswordLength {
		return entity.User{}, entity.TokenPair{}, customerrors.NewValidation("Password must be at least 8 characters long")
	}

	username = strings.ToLower(username)

	// Friendly pre-check; the unique constraints in the store still catch
	// concurrent registrations.
	exists, err := u.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return entity.User{}, entity.TokenPair{}, err
	}
	if exists {
		return entity.User{}, entity.TokenPair{}, customerrors.NewConflict("User already exists")
	}

	created, err := u.repo.CreateUser(ctx, email, username, password)
	if err != nil {
		if errors.Is(err, customerrors.ErrDuplicateUser) {
			return entity.User{}, entity.TokenPair{}, customerrors.NewConflict("User already exists")
		}
		return entity.User{}, entity.TokenPair{}, err
	}

	pair, err := u.IssueTokens(ctx, created.ID)
	if err != nil {
		return entity.User{}, entity.TokenPair{}, err
	}
	return created, pair, nil
}

// Login authenticates by username or email and rotates the refresh token,
// invalidating any previously issued pair.
func (u *UserUsecase) Login(ctx context.Context, username, email, password string) (entity.User, entity.TokenPair, error) {
	login := username
	if login == "" {
		login = email
	}
	if login == "" {
		return entity.User{}, entity.TokenPair{}, customerrors.NewValidation("Username or Email is required")
	}

	user, err := u.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, customerrors.ErrUserNotFound) {
			return entity.User{}, entity.TokenPair{}, customerrors.NewNotFound("User not found")
		}
		return entity.User{}, entity.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return entity.User{}, entity.TokenPair{}, customerrors.NewUnauthorized("Invalid password")
	}

	pair, err := u.IssueTokens(ctx, user.ID)
	if err != nil {
		return entity.User{}, entity.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The presented
// token must match the one stored on the user row; a token superseded by a
// later login is rejected.
func (u *UserUsecase) Refresh(ctx context.Context, refreshToken string) (entity.User, entity.TokenPair, error) {
	if refreshToken == "" {
		return entity.User{}, entity.TokenPair{}, customerrors.NewUnauthorized("Refresh token is required")
	}

	userID, err := u.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return entity.User{}, entity.TokenPair{}, customerrors.NewUnauthorized("Invalid refresh token")
	}

	user, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, customerrors.ErrUserNotFound) {
			return entity.User{}, entity.TokenPair{}, customerrors.NewUnauthorized("Invalid refresh token")
		}
		return entity.User{}, entity.TokenPair{}, err
	}
	if user.RefreshToken != refreshToken {
		return entity.User{}, entity.TokenPair{}, customerrors.NewUnauthorized("Refresh token has been superseded")
	}

	pair, err := u.IssueTokens(ctx, user.ID)
	if err != nil {
		return entity.User{}, entity.TokenPair{}, err
	}
	return user, pair, nil
}

// GetUserByID loads a user for request-scoped resolution.
func (u *UserUsecase) GetUserByID(ctx context.Context, userID uuid.UUID) (entity.User, error) {
	return u.repo.GetUserByID(ctx, userID)
}

// IssueTokens signs a new access/refresh pair and persists the refresh
// token on the user record, overwriting any prior value. A user ID that does
// not resolve, or a persistence failure, is an internal error.
func (u *UserUsecase) IssueTokens(ctx context.Context, userID uuid.UUID) (entity.TokenPair, error) {
	if _, err := u.repo.GetUserByID(ctx, userID); err != nil {
		return entity.TokenPair{}, customerrors.NewInternal("Something went wrong while generating refresh and access token")
	}

	accessToken, err := u.tokens.NewAccessToken(userID)
	if err != nil {
		return entity.TokenPair{}, customerrors.NewInternal("Something went wrong while generating refresh and access token")
	}
	refreshToken, err := u.tokens.NewRefreshToken(userID)
	if err != nil {
		return entity.TokenPair{}, customerrors.NewInternal("Something went wrong while generating refresh and access token")
	}

	if err := u.repo.StoreRefreshToken(ctx, userID, refreshToken); err != nil {
		return entity.TokenPair{}, customerrors.NewInternal("Something went wrong while generating refresh and access token")
	}

	return entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
