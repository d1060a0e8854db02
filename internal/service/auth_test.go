package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/mocks"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
	"github.com/tomiwa-code/recipe-share-api/internal/store"
)

type authFixture struct {
	uow       *mocks.PassthroughUnitOfWork
	users     *mocks.MockUserRepository
	optimizer *mocks.MockOptimizer
	images    *mocks.MockImageStorage
	svc       *service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		uow:       &mocks.PassthroughUnitOfWork{},
		users:     &mocks.MockUserRepository{},
		optimizer: &mocks.MockOptimizer{},
		images:    &mocks.MockImageStorage{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = service.NewAuthService(f.uow, f.users, f.optimizer, f.images, "test-secret", time.Hour, logger)
	return f
}

func TestRegisterAllocatesHandle(t *testing.T) {
	f := newAuthFixture()

	f.users.On("HandleExists", mock.Anything, "adaobi").Return(false, nil)
	f.users.On("Insert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "adaobi" && u.Email == "ada@example.com" && u.Role == models.RoleCreator
	})).Return(primitive.NewObjectID(), nil)

	user, token, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Adaobi",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "adaobi", user.Username)
	assert.False(t, user.ID.IsZero())
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct-horse", user.PasswordHash, "password must be hashed")
}

func TestRegisterTokenMatchesAllocatedID(t *testing.T) {
	f := newAuthFixture()

	f.users.On("HandleExists", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("Insert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		// The document arrives at the repository with its id already set, so
		// the issued token cannot reference a different account.
		return !u.ID.IsZero()
	})).Return(primitive.NewObjectID(), nil)

	user, token, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	claims, err := f.svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
}

func TestRegisterSuffixesTakenHandle(t *testing.T) {
	f := newAuthFixture()

	f.users.On("HandleExists", mock.Anything, "adaobi").Return(true, nil)
	f.users.On("HandleExists", mock.Anything, mock.MatchedBy(func(h string) bool {
		return len(h) == len("adaobi.xxxxxx")
	})).Return(false, nil)
	f.users.On("Insert", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	user, _, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Adaobi",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^adaobi\.[bcdfghjklmnpqrstvwxyz23456789]{6}$`, user.Username)
}

func TestRegisterShortPassword(t *testing.T) {
	f := newAuthFixture()

	_, _, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, 0, f.uow.Calls)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	f.users.On("HandleExists", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("Insert", mock.Anything, mock.Anything).
		Return(primitive.NilObjectID, apperr.Duplicate("email", assert.AnError))

	_, _, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Ada",
		Email:    "taken@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestLoginAndValidateToken(t *testing.T) {
	f := newAuthFixture()
	userID := primitive.NewObjectID()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(&models.User{
		ID:           userID,
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}, nil)

	_, token, err := f.svc.Login(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := f.svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(&models.User{
		PasswordHash: string(hash),
	}, nil)

	_, _, err = f.svc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, apperr.NotFound("user"))

	_, _, err := f.svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.Error(t, err)
	// Unknown users and wrong passwords are indistinguishable to callers.
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestValidateTokenGarbage(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestUpdateProfileReplacesAvatar(t *testing.T) {
	f := newAuthFixture()
	userID := primitive.NewObjectID()
	caller := service.Identity{UserID: userID, Role: models.RoleCreator}
	oldAvatar := &models.Image{ID: "avatars/old.jpg", URL: "https://cdn.example.com/avatars/old.jpg"}
	newAvatar := models.Image{ID: "avatars/new.jpg", URL: "https://cdn.example.com/avatars/new.jpg"}

	f.users.On("FindByID", mock.Anything, userID).Return(&models.User{ID: userID, Avatar: oldAvatar}, nil)
	f.optimizer.On("Optimize", []byte("avatar-bytes")).Return([]byte("optimized"), nil)
	f.images.On("Upload", mock.Anything, []byte("optimized"), mock.MatchedBy(func(o service.UploadOptions) bool {
		return o.Folder == "avatars"
	})).Return(newAvatar, nil)
	f.images.On("Delete", mock.Anything, oldAvatar.ID).Return(nil)
	f.users.On("Update", mock.Anything, userID, mock.MatchedBy(func(u store.UserUpdate) bool {
		return u.Avatar != nil && u.Avatar.ID == newAvatar.ID
	})).Return(nil)

	_, err := f.svc.UpdateProfile(context.Background(), caller, service.UpdateProfileInput{
		Avatar: []byte("avatar-bytes"),
	})
	require.NoError(t, err)
	f.images.AssertNumberOfCalls(t, "Delete", 1)
}
