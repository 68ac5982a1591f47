package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/winkingcatstudios/video-streaming-backend/internal/auth"
	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/repository"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

const (
	signupFailedMessage   = "Signup unsuccessful"
	loginFailedMessage    = "Login unsuccessful"
	loginThrottledMessage = "Too many login attempts, please try again later"
)

// AuthService coordinates signup and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	limiter    auth.LoginLimiter
	bcryptCost int
	logger     *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Limiter    auth.LoginLimiter
	BcryptCost int
	Logger     *zap.Logger
}

// NewAuthService builds the service. A nil Limiter disables throttling.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		limiter:    deps.Limiter,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// Session is the result of a successful signup or login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Signup creates a non-admin account and signs a token for it. The email must
// already be normalized.
func (s *AuthService) Signup(ctx context.Context, name, email, password, image string) (*Session, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(signupFailedMessage, nil)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewCreationError(signupFailedMessage, err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewCreationError(signupFailedMessage, err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Image:        image,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict(signupFailedMessage, err)
		}
		return nil, apperrors.NewCreationError(signupFailedMessage, err)
	}

	token, exp, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email, IsAdmin: false})
	if err != nil {
		return nil, apperrors.NewCreationError(signupFailedMessage, err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*Session, error) {
	key := auth.LoginKey(email, clientIP)
	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, key)
		if err != nil {
			s.logger.Warn("login limiter unavailable", zap.Error(err))
		} else if blocked {
			return nil, apperrors.NewRateLimited(loginThrottledMessage)
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewPersistenceError(DatabaseErrorMessage, err)
		}
		_ = auth.ComparePassword(s.fallbackHash(), password)
		s.recordFailure(ctx, key)
		return nil, apperrors.NewAuthenticationError(loginFailedMessage)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, key)
		return nil, apperrors.NewAuthenticationError(loginFailedMessage)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.logger.Warn("failed to reset login counter", zap.Error(err))
		}
	}

	token, exp, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin})
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
	}
}

// fallbackHash keeps unknown-email logins as slow as wrong-password ones.
func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword("unused-placeholder-password", s.bcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
