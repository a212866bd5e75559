package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the customer JWT payload.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UserAuthService handles customer registration, login and password reset.
// Registration and reset are gated by emailed one-time codes.
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	codeRepo repository.EmailVerifyCodeRepository
	emailSvc *EmailService
}

// NewUserAuthService creates the customer auth service.
func NewUserAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	codeRepo repository.EmailVerifyCodeRepository,
	emailSvc *EmailService,
) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		codeRepo: codeRepo,
		emailSvc: emailSvc,
	}
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

// SendVerifyCode issues an OTP for registration or password reset. Repeat
// requests inside the send interval are rejected.
func (s *UserAuthService) SendVerifyCode(email, purpose string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if purpose != constants.VerifyCodePurposeRegister && purpose != constants.VerifyCodePurposeReset {
		return ErrVerifyCodeInvalid
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if purpose == constants.VerifyCodePurposeRegister {
		if err == nil && user != nil {
			return ErrEmailExists
		}
	} else {
		if err != nil || user == nil {
			// Do not reveal whether the address exists.
			return nil
		}
	}

	vc := s.cfg.Email.VerifyCode
	interval := time.Duration(vc.SendIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	recent, err := s.codeRepo.CountSentSince(normalized, purpose, time.Now().Add(-interval))
	if err != nil {
		return err
	}
	if recent > 0 {
		return ErrVerifyCodeTooSoon
	}

	if err := s.codeRepo.InvalidateAll(normalized, purpose); err != nil {
		return err
	}

	length := vc.Length
	if length <= 0 {
		length = 6
	}
	expire := time.Duration(vc.ExpireMinutes) * time.Minute
	if expire <= 0 {
		expire = 10 * time.Minute
	}

	code := randNumeric(length)
	record := &models.EmailVerifyCode{
		Email:     normalized,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: time.Now().Add(expire),
		SentAt:    time.Now(),
	}
	if user != nil {
		record.UserID = &user.ID
	}
	if err := s.codeRepo.Create(record); err != nil {
		return err
	}

	if err := s.emailSvc.SendVerifyCode(normalized, code, purpose); err != nil {
		logger.Warnw("verify_code_send_failed", "email", normalized, "purpose", purpose, "error", err)
	}
	return nil
}

// consumeCode validates an OTP and burns it.
func (s *UserAuthService) consumeCode(email, purpose, code string) error {
	record, err := s.codeRepo.GetLatest(email, purpose)
	if err != nil {
		return err
	}
	if record == nil || time.Now().After(record.ExpiresAt) {
		return ErrVerifyCodeInvalid
	}

	maxAttempts := s.cfg.Email.VerifyCode.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if record.AttemptCount >= maxAttempts {
		return ErrVerifyCodeInvalid
	}

	if record.Code != strings.TrimSpace(code) {
		record.AttemptCount++
		if err := s.codeRepo.Update(record); err != nil {
			return err
		}
		return ErrVerifyCodeInvalid
	}

	now := time.Now()
	record.VerifiedAt = &now
	return s.codeRepo.Update(record)
}

// Register creates an account once the emailed code checks out.
func (s *UserAuthService) Register(email, password, name, code string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetByEmail(normalized)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	if err := s.consumeCode(normalized, constants.VerifyCodePurposeRegister, code); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:         normalized,
		PasswordHash:  hash,
		Name:          strings.TrimSpace(name),
		Status:        constants.UserStatusActive,
		EmailVerified: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a customer token.
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil || user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if user.Status == constants.UserStatusBlocked {
		return nil, "", time.Time{}, ErrAccountBlocked
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}
	return user, token, expiresAt, nil
}

// ResetPassword sets a new password after OTP verification.
func (s *UserAuthService) ResetPassword(email, code, newPassword string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(newPassword) < 8 {
		return ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil || user == nil {
		return ErrVerifyCodeInvalid
	}

	if err := s.consumeCode(normalized, constants.VerifyCodePurposeReset, code); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{"password_hash": hash})
}

// GenerateJWT signs a customer token with the user secret.
func (s *UserAuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.UserJWT.ExpireHours) * time.Hour)
	claims := UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT validates a customer token.
func (s *UserAuthService) ParseJWT(tokenString string) (*UserClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// GetByID fetches a customer for middleware lookups.
func (s *UserAuthService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns customers for the admin console.
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// SetUserStatus blocks or reactivates a customer account.
func (s *UserAuthService) SetUserStatus(id uint, status string) error {
	if status != constants.UserStatusActive && status != constants.UserStatusBlocked {
		return ErrInvalidUserStatus
	}
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.userRepo.UpdateFields(id, map[string]interface{}{"status": status})
}
