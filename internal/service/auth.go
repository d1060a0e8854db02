package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
	"github.com/tomiwa-code/recipe-share-api/internal/store"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Location string
}

// UpdateProfileInput is a partial profile update. Avatar/Cover carry raw image
// bytes when the caller supplied replacements.
type UpdateProfileInput struct {
	Name     *string
	Location *string
	Avatar   []byte
	Cover    []byte
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	uow       store.UnitOfWork
	users     store.UserRepository
	optimizer ImageOptimizer
	images    ImageStorage
	jwtSecret string
	jwtExpiry time.Duration
	logger    *slog.Logger
}

func NewAuthService(uow store.UnitOfWork, users store.UserRepository, optimizer ImageOptimizer, images ImageStorage, jwtSecret string, jwtExpiry time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		uow:       uow,
		users:     users,
		optimizer: optimizer,
		images:    images,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

// Register creates a user with a freshly allocated unique handle and returns
// the user plus a signed token. Handle check and insert share one transaction;
// the unique index backstops racing registrations.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, "", apperr.Validation("name", "name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, "", apperr.Validation("email", "email is required")
	}
	if len(in.Password) < 8 {
		return nil, "", apperr.Validation("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleCreator,
		Location:     strings.TrimSpace(in.Location),
	}

	// The id is allocated up front so the token can be signed before any
	// write; a signing failure then leaves no account behind.
	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	err = s.uow.Run(ctx, func(txCtx context.Context) error {
		handle, err := AllocateHandle(in.Name, func(candidate string) (bool, error) {
			return s.users.HandleExists(txCtx, candidate)
		})
		if err != nil {
			return err
		}
		user.Username = handle

		_, err = s.users.Insert(txCtx, user)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID.Hex(), "username", user.Username)
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, "", apperr.Unauthorized("invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies a partial update to the caller's own profile. New
// avatar/cover images run through the optimize/upload pipeline; the previous
// stored images are deleted best-effort after a successful upload.
func (s *AuthService) UpdateProfile(ctx context.Context, caller Identity, in UpdateProfileInput) (*models.User, error) {
	update := store.UserUpdate{Name: in.Name, Location: in.Location}

	var err error
	var oldAvatar, oldCover *models.Image
	err = s.uow.Run(ctx, func(txCtx context.Context) error {
		user, err := s.users.FindByID(txCtx, caller.UserID)
		if err != nil {
			return err
		}

		if len(in.Avatar) > 0 {
			img, err := s.processAndUpload(txCtx, in.Avatar, "avatars")
			if err != nil {
				return err
			}
			update.Avatar = &img
			oldAvatar = user.Avatar
		}
		if len(in.Cover) > 0 {
			img, err := s.processAndUpload(txCtx, in.Cover, "covers")
			if err != nil {
				return err
			}
			update.Cover = &img
			oldCover = user.Cover
		}

		return s.users.Update(txCtx, caller.UserID, update)
	})
	if err != nil {
		return nil, err
	}

	if oldAvatar != nil {
		s.cleanupImage(ctx, oldAvatar.ID)
	}
	if oldCover != nil {
		s.cleanupImage(ctx, oldCover.ID)
	}

	return s.users.FindByID(ctx, caller.UserID)
}

func (s *AuthService) processAndUpload(ctx context.Context, data []byte, folder string) (models.Image, error) {
	optimized, err := s.optimizer.Optimize(data)
	if err != nil {
		return models.Image{}, err
	}
	return s.images.Upload(ctx, optimized, UploadOptions{MaxWidth: 800, MaxHeight: 600, Folder: folder})
}

func (s *AuthService) cleanupImage(ctx context.Context, id string) {
	if err := s.images.Delete(ctx, id); err != nil {
		s.logger.Warn("best-effort image delete failed", "image_id", id, "error", err)
	}
}

func (s *AuthService) generateToken(userID primitive.ObjectID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    role,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken verifies a bearer token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, apperr.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperr.Unauthorized("invalid token claims")
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token claims")
	}

	role, _ := claims["role"].(string)
	return &TokenClaims{UserID: userID, Role: role}, nil
}
