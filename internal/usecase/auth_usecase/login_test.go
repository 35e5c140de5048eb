package auth_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"pos/internal/domain/model"
	"pos/internal/repository"
	auth "pos/internal/usecase/auth_usecase"
	"pos/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Mocks
// =====================

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (g *seqID) NewID() string {
	g.n++
	return "jti-" + strconv.Itoa(g.n)
}

// =====================
// helper
// =====================

const testSecret = "test_secret"

var loginNow = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := auth.NewBcryptPasswordHasher(bcrypt.MinCost).Hash(plain)
	require.NoError(t, err)
	return h
}

func newLoginUC(t *testing.T, users repository.UserRepository) *auth.LoginUsecase {
	t.Helper()
	issuer, err := auth.NewJWTIssuer(testSecret, 15*time.Minute, &seqID{})
	require.NoError(t, err)
	return auth.NewLoginUsecase(users, validator.NewAuthValidator(), auth.NewBcryptPasswordVerifier(), issuer, fixedClock{now: loginNow})
}

// =====================
// Login
// =====================

func TestLogin_Success_IssuesJWTAndUpdatesLastLogin(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByUsername", mock.Anything, "admin").
		Return(&model.User{ID: 1, Username: "admin", PasswordHash: mustHash(t, "admin123"), Role: model.RoleAdmin}, nil)
	users.On("UpdateLastLogin", mock.Anything, int64(1), loginNow).Return(nil)

	out, err := newLoginUC(t, users).Execute(context.Background(), auth.LoginInput{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.User.ID)
	assert.Equal(t, model.RoleAdmin, out.User.Role)
	assert.Equal(t, 900, out.Token.ExpiresIn)

	//署名とclaimsを確認（expは固定時刻なので検証しない）
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	_, err = parser.ParseWithClaims(out.Token.AccessToken, claims, func(tk *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "jti-1", claims["jti"])
	assert.Equal(t, float64(loginNow.Unix()), claims["iat"])
	assert.Equal(t, float64(loginNow.Add(15*time.Minute).Unix()), claims["exp"])

	users.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByUsername", mock.Anything, "admin").
		Return(&model.User{ID: 1, Username: "admin", PasswordHash: mustHash(t, "admin123"), Role: model.RoleAdmin}, nil)

	_, err := newLoginUC(t, users).Execute(context.Background(), auth.LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := newLoginUC(t, users).Execute(context.Background(), auth.LoginInput{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_BlankInput(t *testing.T) {
	users := new(MockUserRepo)

	_, err := newLoginUC(t, users).Execute(context.Background(), auth.LoginInput{Username: " ", Password: ""})
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
	users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestLogin_RepoError(t *testing.T) {
	users := new(MockUserRepo)
	boom := errors.New("db down")
	users.On("FindByUsername", mock.Anything, "admin").Return(nil, boom)

	_, err := newLoginUC(t, users).Execute(context.Background(), auth.LoginInput{Username: "admin", Password: "admin123"})
	assert.ErrorIs(t, err, boom)
}

// =====================
// JWT issuer
// =====================

func TestNewJWTIssuer_Validation(t *testing.T) {
	_, err := auth.NewJWTIssuer("", time.Minute, &seqID{})
	assert.Error(t, err)

	_, err = auth.NewJWTIssuer("s", 0, &seqID{})
	assert.Error(t, err)
}
