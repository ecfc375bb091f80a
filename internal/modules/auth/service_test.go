package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jvalladares/tienda-backend/internal/modules/user"
)

type stubUserRepo struct {
	byEmail map[string]*user.User
	byID    map[int64]*user.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*user.User{}, byID: map[int64]*user.User{}, nextID: 1}
}

func (s *stubUserRepo) CreateUser(ctx context.Context, u *user.User) error {
	u.ID = s.nextID
	s.nextID++
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
	return nil
}

func (s *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newTestService(repo user.Repository) *service {
	return &service{userRepo: repo, jwtSecret: []byte("test-secret")}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "ana@example.com",
		Password:  "s3cret",
		FirstName: "Ana",
		LastName:  "Valladares",
	})
	require.NoError(t, err)

	assert.Equal(t, user.RoleCustomer, u.RoleID)
	assert.True(t, u.Active)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "ana@example.com"})
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Password: "s3cret"})
	assert.Error(t, err)
}

func TestLoginVerifiesCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(context.Background(), &user.User{
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Active:       false,
	}))

	_, err = svc.Login(context.Background(), "ana@example.com", "s3cret")
	assert.EqualError(t, err, "account is not active")
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	token, err := svc.signToken(42)
	require.NoError(t, err)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	claims := &jwt.StandardClaims{
		Subject:   "42",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.jwtSecret)
	require.NoError(t, err)

	_, err = svc.VerifyToken(expired)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	other := &service{jwtSecret: []byte("other-secret")}
	token, err := other.signToken(42)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}
