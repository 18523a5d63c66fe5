package service

import (
	"context"

	"github.com/dukapos/duka-api/internal/domain/entity"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/dukapos/duka-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput holds store owner registration fields.
type RegisterInput struct {
	StoreName string `json:"store_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult carries the token pair issued after registration or login.
type AuthResult struct {
	Owner        *entity.Owner `json:"owner"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// AuthService handles store owner registration and login.
type AuthService struct {
	ownerRepo  domainRepo.OwnerRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(ownerRepo domainRepo.OwnerRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		ownerRepo:  ownerRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a store owner account and logs it in.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	existing, err := s.ownerRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewAppError(apperror.ErrConflict.Code, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	owner := &entity.Owner{
		StoreName: input.StoreName,
		Email:     input.Email,
		Password:  string(hashed),
	}
	if err := s.ownerRepo.Create(ctx, owner); err != nil {
		return nil, err
	}

	return s.issueTokens(owner)
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	owner, err := s.ownerRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(owner)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	ownerID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	owner, err := s.ownerRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.ErrUnauthorized
	}

	return s.issueTokens(owner)
}

func (s *AuthService) issueTokens(owner *entity.Owner) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(owner.ID, owner.Email, owner.StoreName)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(owner.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Owner:        owner,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
