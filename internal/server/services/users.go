package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"github.com/dmitrijs2005/herowall/internal/server/auth"
	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	issuer      *auth.TokenIssuer
	hasher      *auth.PasswordHasher
	log         logging.Logger
	now         func() time.Time
}

func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, issuer *auth.TokenIssuer,
	hasher *auth.PasswordHasher, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		hasher:      hasher,
		log:         log.With("module", "users"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and signs the user in. A taken email yields
// common.ErrorConflict, both from the pre-check and from the store's
// uniqueness guarantee when two registrations race.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrorConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, storeError(ctx, s.log, "lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "hash password failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.DefaultRole,
		IsActive:     true,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, storeError(ctx, s.log, "create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)

	return s.generateTokenPair(ctx, user)
}

// Login exchanges credentials for a token pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {

	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.Users(s.db).TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, storeError(ctx, s.log, "record login", err)
	}

	return pair, nil
}

// ValidateCredentials returns the user whose password matches, or nil when
// the email is unknown or the password is wrong. It has no side effects.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, nil
		}
		return nil, storeError(ctx, s.log, "lookup user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}

// Refresh verifies a refresh token and issues a new pair for its subject.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	id, err := s.issuer.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storeError(ctx, s.log, "lookup user", err)
	}

	return s.generateTokenPair(ctx, user)
}

// Profile returns the stored record of the given user.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, s.log, "lookup user", err)
	}
	return user, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	id := auth.Identity{UserID: user.ID, Email: user.Email}

	accessToken, err := s.issuer.Issue(id, auth.AccessToken)
	if err != nil {
		s.log.Error(ctx, "issue access token failed", "error", err)
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.issuer.Issue(id, auth.RefreshToken)
	if err != nil {
		s.log.Error(ctx, "issue refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
