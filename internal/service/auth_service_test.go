package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"peoplefirst_backend/internal/config"
	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/util"
)

type fakeUserStore struct {
	users      map[string]*model.User
	nextID     uint
	lastLogins []uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) UpdateLastLogin(userID uint) error {
	f.lastLogins = append(f.lastLogins, userID)
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

func TestAuthService_Register(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())

	result, err := svc.Register(RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, model.Student, result.User.Role)
	assert.NotEqual(t, "supersecret", result.User.Password, "password is stored hashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.Password), []byte("supersecret")))

	claims, err := util.ParseJWT(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())

	_, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Name: "Eve", Email: "ada@example.com", Password: "othersecret"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestAuthService_Login(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())

	registered, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login("ada@example.com", "supersecret")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Contains(t, store.lastLogins, registered.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("ada@example.com", "wrong")
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("ghost@example.com", "supersecret")
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("disabled account", func(t *testing.T) {
		store.users["ada@example.com"].Disabled = true
		defer func() { store.users["ada@example.com"].Disabled = false }()

		_, err := svc.Login("ada@example.com", "supersecret")
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
	})
}
