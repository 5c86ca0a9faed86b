package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/campusfind/campusfind/internal/model"
	"github.com/campusfind/campusfind/internal/repository"
	"github.com/campusfind/campusfind/internal/storage"
	"github.com/campusfind/campusfind/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("user already exists")
	ErrNoProfileChanges   = errors.New("no fields to update")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// resetTokenTTL bounds how long a password reset token stays redeemable.
const resetTokenTTL = time.Hour

type AuthService struct {
	userRepository    repository.UserRepository
	tokenRepository   repository.TokenRepository
	storage           storage.Storage
	jwtSecret         string
	jwtExpiry         time.Duration
	universityDomains []string
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	storage storage.Storage,
	jwtSecret string,
	jwtExpiry time.Duration,
	universityDomains []string,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		tokenRepository:   tokenRepository,
		storage:           storage,
		jwtSecret:         jwtSecret,
		jwtExpiry:         jwtExpiry,
		universityDomains: universityDomains,
	}
}

// Register creates a new account. Registration is restricted to university
// email addresses and requires an E.164 phone number for contact info.
func (s *AuthService) Register(name, email, password, phone string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	err := validation.ValidateUniversityEmail(email, s.universityDomains)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	err = validation.ValidatePhone(phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates by email and password. A missing account and a wrong
// password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// hashDigest returns the hex SHA-256 of a reset token, the only form the
// token is ever stored in.
func hashDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword issues a password reset token, replacing any outstanding
// one for the account. For an unknown email it returns an empty token and
// no error, so callers cannot probe which addresses are registered.
func (s *AuthService) ForgotPassword(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	raw := make([]byte, 20)
	_, err = rand.Read(raw)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		return "", fmt.Errorf("failed to revoke old reset tokens: %w", err)
	}

	now := time.Now().UTC()
	err = s.tokenRepository.Create(&model.Token{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Digest:    hashDigest(token),
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return token, nil
}

// ResetPassword redeems a reset token and sets a new password. Tokens are
// single use: a second redemption fails even inside the expiry window.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	t, err := s.tokenRepository.Consume(hashDigest(token))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if t.Type != model.TokenTypePasswordReset {
		return ErrInvalidResetToken
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepository.UpdatePassword(t.UserID, hash)
}

// ChangePassword sets a new password for an authenticated user after
// re-proving the current one.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	err = s.ComparePassword(currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepository.UpdatePassword(userID, hash)
}

// ProfileUpdate carries the optional profile fields. Nil pointers mean the
// field was not part of the request.
type ProfileUpdate struct {
	Phone    *string
	Whatsapp *string
}

// UpdateProfile applies profile changes and replaces the profile picture
// if one is supplied. The new picture is uploaded before the old handle is
// deleted, so a failed upload leaves the current picture intact.
func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate, picture multipart.File, header *multipart.FileHeader) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	changed := false

	if update.Phone != nil && *update.Phone != "" {
		err = validation.ValidatePhone(*update.Phone)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		user.Phone = strings.TrimSpace(*update.Phone)
		changed = true
	}

	if update.Whatsapp != nil && *update.Whatsapp != "" {
		err = validation.ValidatePhone(*update.Whatsapp)
		if err != nil {
			return nil, fmt.Errorf("%w: whatsapp %s", ErrValidation, err)
		}
		whatsapp := strings.TrimSpace(*update.Whatsapp)
		user.Whatsapp = &whatsapp
		changed = true
	}

	if picture != nil {
		url, handle, err := uploadImage(s.storage, "user-profiles/"+userID, picture, header)
		if err != nil {
			return nil, err
		}

		if user.HasProfilePicture() {
			delErr := s.storage.Delete(*user.ProfilePictureHandle)
			if delErr != nil {
				slog.Warn("failed to delete old profile picture", "error", delErr, "handle", *user.ProfilePictureHandle)
			}
		}

		user.ProfilePicture = &url
		user.ProfilePictureHandle = &handle
		changed = true
	}

	if !changed {
		return nil, ErrNoProfileChanges
	}

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
