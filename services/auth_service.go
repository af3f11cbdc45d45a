package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/entity"
	"marketplace/pkg/logger"
	"marketplace/repository"
	"marketplace/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	JWTSecret       string
	JWTTTL          time.Duration
	VerificationTTL time.Duration
	AppURL          string
}

// AuthService handles registration, login and email verification.
type AuthService struct {
	userRepo    *repository.UserRepository
	serviceRepo *repository.ServiceRepository
	cfg         AuthConfig
	now         func() time.Time
}

func NewAuthService(repo *repository.UserRepository, serviceRepo *repository.ServiceRepository, cfg AuthConfig) *AuthService {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	return &AuthService{userRepo: repo, serviceRepo: serviceRepo, cfg: cfg, now: time.Now}
}

type RegisterInput struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=6"`
	FirstName   string   `json:"firstName" binding:"required"`
	LastName    string   `json:"lastName" binding:"required"`
	PhoneNumber string   `json:"phoneNumber"`
	Address     string   `json:"address"`
	Role        string   `json:"role" binding:"omitempty,oneof=customer artisan"`
	ServiceID   *uint    `json:"serviceId"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Register creates a customer or artisan account and issues an email
// verification token.
func (s *AuthService) Register(in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	role := in.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if role == entity.RoleArtisan {
		if in.ServiceID == nil {
			return nil, badInput("serviceId is required for artisans")
		}
		if _, err := s.serviceRepo.FindByID(*in.ServiceID); err != nil {
			if errors.Is(notFound(err), ErrNotFound) {
				return nil, badInput("service not found")
			}
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}

	expires := s.now().Add(s.cfg.VerificationTTL)
	user := &entity.User{
		Email:                 email,
		Password:              string(hashed),
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		PhoneNumber:           strings.TrimSpace(in.PhoneNumber),
		Address:               strings.TrimSpace(in.Address),
		Role:                  role,
		KYCStatus:             entity.KYCStatusNotSubmitted,
		VerificationToken:     uuid.NewString(),
		VerificationExpiresAt: &expires,
	}
	if role == entity.RoleArtisan {
		user.ServiceID = in.ServiceID
		user.Latitude = in.Latitude
		user.Longitude = in.Longitude
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	s.logVerificationLink(user)
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.cfg.JWTSecret, s.cfg.JWTTTL)
	if err != nil {
		return "", nil, errors.New("cannot generate token")
	}
	return token, user, nil
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.VerificationExpiresAt != nil && s.now().After(*user.VerificationExpiresAt) {
		return nil, ErrInvalidToken
	}
	if err := s.userRepo.MarkEmailVerified(user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.VerificationToken = ""
	user.VerificationExpiresAt = nil
	return user, nil
}

func (s *AuthService) ResendVerification(userID uint) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFound(err)
	}
	if user.EmailVerified {
		return fmt.Errorf("%w: email already verified", ErrConflict)
	}
	token := uuid.NewString()
	expires := s.now().Add(s.cfg.VerificationTTL)
	if err := s.userRepo.SetVerificationToken(user.ID, token, expires); err != nil {
		return err
	}
	user.VerificationToken = token
	s.logVerificationLink(user)
	return nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	u, err := s.userRepo.FindByID(userID)
	return u, notFound(err)
}

func (s *AuthService) UpdateFCMToken(_ context.Context, userID uint, token string) error {
	return s.userRepo.Update(userID, map[string]any{"fcm_token": strings.TrimSpace(token)})
}

// TODO: hand the link to a mail provider once one is picked; until then it is only logged.
func (s *AuthService) logVerificationLink(u *entity.User) {
	link := fmt.Sprintf("%s/verify-email/%s", strings.TrimRight(s.cfg.AppURL, "/"), u.VerificationToken)
	logger.Default().Infof("verification link for %s: %s", u.Email, link)
}
