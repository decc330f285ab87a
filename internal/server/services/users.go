// Package services implements the application core: the credential store,
// identity reconciliation, and the task lifecycle controller. Services own
// validation and business rules; repositories own SQL.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/CS-Kiran/Manana/internal/common"
	"github.com/CS-Kiran/Manana/internal/dbx"
	"github.com/CS-Kiran/Manana/internal/server/auth"
	"github.com/CS-Kiran/Manana/internal/server/config"
	"github.com/CS-Kiran/Manana/internal/server/models"
	"github.com/CS-Kiran/Manana/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// allowedEmailDomains is a business rule carried over from the signup form,
// not a security control.
var allowedEmailDomains = map[string]struct{}{
	"gmail.com":   {},
	"outlook.com": {},
	"yahoo.com":   {},
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ExternalProfile is the identity assertion received from the external
// provider after it has verified the user. Verifying the assertion itself
// is the provider integration's job, not ours.
type ExternalProfile struct {
	Email     string
	Name      string
	SubjectID string
}

type UserService struct {
	db                           *sql.DB
	repos                        repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	queryTimeout                 time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repos:                        m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		queryTimeout:                 cfg.QueryTimeout,
	}
}

// NormalizeEmail applies the canonical form used for the uniqueness check:
// trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailDomainAllowed(email string) bool {
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return false
	}
	_, ok := allowedEmailDomains[domain]
	return ok
}

func passwordAcceptable(password string) bool {
	if len(password) < 8 {
		return false
	}
	for _, r := range password {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func (s *UserService) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Signup creates a local-credential account. The raw password is hashed with
// bcrypt before it reaches the repository and is never stored in cleartext.
func (s *UserService) Signup(ctx context.Context, name, email, rawPassword string) (*models.User, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrNameRequired
	}

	email = NormalizeEmail(email)
	if !emailDomainAllowed(email) {
		return nil, common.ErrInvalidEmailDomain
	}

	if !passwordAcceptable(rawPassword) {
		return nil, common.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     models.ProviderLocal,
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	user, err = s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies a local credential and issues a token pair. An account
// created through the external provider cannot log in with a password.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	user, err := s.repos.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if user.Provider != models.ProviderLocal {
		return nil, common.ErrProviderMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user.ID)
}

// ExternalSignIn reconciles an external identity assertion with the user
// store. A fresh email creates an account; a returning external account
// authenticates; an email already owned by a local-credential account is
// rejected outright — never merged.
func (s *UserService) ExternalSignIn(ctx context.Context, profile ExternalProfile) (*TokenPair, error) {

	email := NormalizeEmail(profile.Email)
	if email == "" {
		return nil, common.ErrorValidation
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error loading user: %w", err)
		}

		now := time.Now()
		user = &models.User{
			Name:          profile.Name,
			Email:         email,
			Provider:      models.ProviderExternal,
			ExternalID:    profile.SubjectID,
			EmailVerified: &now,
		}
		user, err = repo.Create(ctx, user)
		if err != nil {
			// Two first-time sign-ins with the same email can race; the
			// loser hits the unique index.
			if errors.Is(err, common.ErrorConflict) {
				return nil, common.ErrEmailExists
			}
			return nil, fmt.Errorf("error creating user: %w", err)
		}

		return s.issueTokenPair(ctx, user.ID)
	}

	if user.Provider != models.ProviderExternal {
		return nil, common.ErrProviderMismatch
	}

	// Backfill the subject id for accounts created before it was recorded.
	if user.ExternalID == "" && profile.SubjectID != "" {
		if err := repo.SetExternalID(ctx, user.ID, profile.SubjectID); err != nil {
			return nil, fmt.Errorf("error updating external id: %w", err)
		}
	}

	return s.issueTokenPair(ctx, user.ID)
}

// SetPassword replaces a local account's password. The new password goes
// through the same acceptance rules as signup and is always rehashed.
func (s *UserService) SetPassword(ctx context.Context, userID, rawPassword string) error {

	if !passwordAcceptable(rawPassword) {
		return common.ErrWeakPassword
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	repo := s.repos.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error loading user: %w", err)
	}
	if user.Provider != models.ProviderLocal {
		return common.ErrProviderMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return repo.SetPasswordHash(ctx, userID, string(hash))
}

// GetUser loads the authenticated user's own record (the /auth/me endpoint).
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// RefreshToken rotates a refresh token: the presented token is deleted and a
// fresh pair is issued inside one transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	token, err := s.repos.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		tokenPair, err = s.issueTokenPairTx(ctx, tx, token.UserID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

func (s *UserService) issueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		pair, err = s.issueTokenPairTx(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) issueTokenPairTx(ctx context.Context, tx dbx.DBTX, userID string) (*TokenPair, error) {

	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	if err := s.repos.RefreshTokens(tx).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
