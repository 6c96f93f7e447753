package service

import (
	"context"
	"ctchen222/Todo-List/internal/api/mocks"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/db/dbtest"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo)

	repo.EXPECT().GetUserByUsername(gomock.Any(), "rizal").Return(nil, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			assert.Equal(t, "rizal", u.Username)
			assert.NotEqual(t, "s3cret", u.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
			u.ID = 1
			return nil
		})

	user, err := svc.Register(context.Background(), &models.RegisterRequest{Username: "rizal", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo)

	repo.EXPECT().GetUserByUsername(gomock.Any(), "taken").
		Return(&models.User{ID: 9, Username: "taken"}, nil)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{Username: "taken", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUserService_Register_RaceOnInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo)

	repo.EXPECT().GetUserByUsername(gomock.Any(), "racer").Return(nil, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(repository.ErrUsernameTaken)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{Username: "racer", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUserService_Register_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo)
	boom := errors.New("boom")

	repo.EXPECT().GetUserByUsername(gomock.Any(), "u").Return(nil, boom)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{Username: "u", Password: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestUserService_Login_IndistinguishableFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.EXPECT().GetUserByUsername(gomock.Any(), "ghost").Return(nil, nil)
	repo.EXPECT().GetUserByUsername(gomock.Any(), "rizal").
		Return(&models.User{ID: 1, Username: "rizal", PasswordHash: string(hash)}, nil)

	_, errUnknown := svc.Login(context.Background(), &models.LoginRequest{Username: "ghost", Password: "right"})
	_, errWrong := svc.Login(context.Background(), &models.LoginRequest{Username: "rizal", Password: "wrong"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestUserService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.EXPECT().GetUserByUsername(gomock.Any(), "rizal").
		Return(&models.User{ID: 3, Username: "rizal", PasswordHash: string(hash)}, nil)

	user, err := svc.Login(context.Background(), &models.LoginRequest{Username: "rizal", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
}

func TestUserService_DuplicateRegistrationStoresOneUser(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	svc := NewUserService(repository.NewUserRepository(conn))

	_, err := svc.Register(ctx, &models.RegisterRequest{Username: "same", Password: "one"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &models.RegisterRequest{Username: "same", Password: "two"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	var n int
	require.NoError(t, conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE username = ?`, "same"))
	assert.Equal(t, 1, n)

	user, err := svc.Login(ctx, &models.LoginRequest{Username: "same", Password: "one"})
	require.NoError(t, err)
	assert.Equal(t, "same", user.Username)
}
