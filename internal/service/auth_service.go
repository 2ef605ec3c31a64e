package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"github.com/tekions/clubhub-backend/pkg/mailer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const verificationTokenTTL = 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*dto.UserResponse, error)
}

type authService struct {
	repo        repository.UserRepository
	tokenRepo   repository.TokenRepository
	mail        mailer.Mailer
	secret      string
	tokenTTL    time.Duration
	defaultRole string
}

func NewAuthService(repo repository.UserRepository, tokenRepo repository.TokenRepository, mail mailer.Mailer) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	defaultRole := os.Getenv("DEFAULT_ROLE")
	if defaultRole == "" {
		defaultRole = "student"
	}

	return &authService{
		repo:        repo,
		tokenRepo:   tokenRepo,
		mail:        mail,
		secret:      secret,
		tokenTTL:    ttl,
		defaultRole: defaultRole,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error) {
	if err := s.ensureUserUnique(ctx, input.Email, input.Name); err != nil {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", s.defaultRole)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
		Department:   normalizeOptional(input.Department),
		Year:         normalizeOptional(input.Year),
		Bio:          normalizeOptional(input.Bio),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueVerificationToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.mail.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		// Registration already succeeded; the token can be re-requested
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	record, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrBadRequest, "invalid verification token")
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		_ = s.tokenRepo.Delete(ctx, record.ID)
		return apperror.Wrap(apperror.ErrBadRequest, "verification token has expired")
	}

	if err := s.repo.MarkVerified(ctx, record.UserID.String()); err != nil {
		return err
	}

	if err := s.tokenRepo.Delete(ctx, record.ID); err != nil {
		return err
	}

	if err := s.mail.SendWelcomeEmail(record.User.Email, record.User.Name); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", record.User.Email, err)
	}

	return nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.Wrap(apperror.ErrUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        toUserResponse(user),
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil && *input.Name != user.Name {
		if _, err := s.repo.FindByName(ctx, *input.Name); err == nil {
			return nil, apperror.Wrap(apperror.ErrConflict, "name already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Name = *input.Name
	}
	if input.Department != nil {
		user.Department = normalizeOptional(input.Department)
	}
	if input.Year != nil {
		user.Year = normalizeOptional(input.Year)
	}
	if input.Bio != nil {
		user.Bio = normalizeOptional(input.Bio)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) issueVerificationToken(ctx context.Context, user *model.User) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	token := hex.EncodeToString(raw)

	record := &model.VerificationToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return "", err
	}

	return token, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

func (s *authService) ensureUserUnique(ctx context.Context, email, name string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return apperror.Wrap(apperror.ErrConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return apperror.Wrap(apperror.ErrConflict, "name already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
		Year:       user.Year,
		Bio:        user.Bio,
		AvatarURL:  user.AvatarURL,
		Points:     user.Points,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
