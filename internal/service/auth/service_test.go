package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/email"
	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	"github.com/healthecon360/analytics-api/pkg/auth"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/security"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	repository.UserRepository
	byEmail    map[string]*model.User
	byUsername map[string]*model.User
	byID       map[uuid.UUID]*model.User
	roles      map[string]*model.Role
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
		byID:       make(map[uuid.UUID]*model.User),
		roles:      make(map[string]*model.Role),
	}
}

func (f *fakeUserRepo) add(u *model.User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byEmail[u.Email] = u
	f.byUsername[u.Username] = u
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	f.add(u)
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetRoleByName(_ context.Context, name string) (*model.Role, error) {
	if r, ok := f.roles[name]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) CreateRole(_ context.Context, role *model.Role) error {
	role.ID = uuid.New()
	f.roles[role.Name] = role
	return nil
}

type fakeTokenRepo struct {
	repository.TokenRepository
	verification map[string]uuid.UUID
	reset        map[string]uuid.UUID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		verification: make(map[string]uuid.UUID),
		reset:        make(map[string]uuid.UUID),
	}
}

func (f *fakeTokenRepo) StoreVerificationToken(_ context.Context, userID uuid.UUID, token string, _ time.Time) error {
	f.verification[token] = userID
	return nil
}

func (f *fakeTokenRepo) ValidateVerificationToken(_ context.Context, token string) (uuid.UUID, error) {
	if id, ok := f.verification[token]; ok {
		return id, nil
	}
	return uuid.Nil, assert.AnError
}

func (f *fakeTokenRepo) StoreResetToken(_ context.Context, userID uuid.UUID, token string, _ time.Time) error {
	f.reset[token] = userID
	return nil
}

func (f *fakeTokenRepo) ValidateResetToken(_ context.Context, token string) (uuid.UUID, error) {
	if id, ok := f.reset[token]; ok {
		return id, nil
	}
	return uuid.Nil, assert.AnError
}

func (f *fakeTokenRepo) InvalidateToken(_ context.Context, token string) error {
	delete(f.verification, token)
	delete(f.reset, token)
	return nil
}

func newTestService(userRepo *fakeUserRepo, tokenRepo *fakeTokenRepo) *Service {
	jwtSvc := auth.NewJWTService("secret", "refresh-secret", time.Hour, 24*time.Hour, "test")
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return NewService(userRepo, tokenRepo, jwtSvc, hasher, email.NoopService{}, logger.NewLogger(nil))
}

func seedUser(t *testing.T, repo *fakeUserRepo, password string) *model.User {
	t.Helper()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	user := &model.User{
		Email:        "user@example.com",
		Username:     "user",
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}
	repo.add(user)
	return user
}

func TestLoginSuccess(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedUser(t, userRepo, "correct-password")
	svc := newTestService(userRepo, newFakeTokenRepo())

	tokens, err := svc.Login(context.Background(), "user@example.com", "correct-password")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotNil(t, userRepo.byEmail["user@example.com"].LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedUser(t, userRepo, "correct-password")
	svc := newTestService(userRepo, newFakeTokenRepo())

	_, err := svc.Login(context.Background(), "user@example.com", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.Equal(t, 1, userRepo.byEmail["user@example.com"].LoginAttempts)
}

func TestLoginUnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeTokenRepo())

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedUser(t, userRepo, "correct-password")
	svc := newTestService(userRepo, newFakeTokenRepo())

	for i := 0; i < 5; i++ {
		_, err := svc.Login(context.Background(), "user@example.com", "wrong")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	}
	assert.Equal(t, model.UserStatusLocked, userRepo.byEmail["user@example.com"].Status)

	// even the right password is refused while locked
	_, err := svc.Login(context.Background(), "user@example.com", "correct-password")
	assert.ErrorIs(t, err, model.ErrAccountLocked)
}

func TestLoginLockoutExpires(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(t, userRepo, "correct-password")
	user.Status = model.UserStatusLocked
	user.LoginAttempts = 5
	user.LastLoginAttempt = time.Now().Add(-16 * time.Minute)
	svc := newTestService(userRepo, newFakeTokenRepo())

	tokens, err := svc.Login(context.Background(), "user@example.com", "correct-password")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, model.UserStatusActive, userRepo.byEmail["user@example.com"].Status)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedUser(t, userRepo, "correct-password")
	svc := newTestService(userRepo, newFakeTokenRepo())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "user@example.com",
		Username: "someone-else",
		Password: "new-password",
	})
	assert.Error(t, err)
}

func TestRegisterThenVerifyActivates(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	svc := newTestService(userRepo, tokenRepo)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "new@example.com",
		Username: "newuser",
		Password: "strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusPending, user.Status)
	require.Len(t, tokenRepo.verification, 1)

	var token string
	for tok := range tokenRepo.verification {
		token = tok
	}
	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	assert.Equal(t, model.UserStatusActive, userRepo.byEmail["new@example.com"].Status)
	assert.Empty(t, tokenRepo.verification)
}

func TestRegisterCreatesDefaultRoleOnFirstUse(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestService(userRepo, newFakeTokenRepo())

	first, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "first@example.com",
		Username: "first",
		Password: "strong-password",
	})
	require.NoError(t, err)

	role, ok := userRepo.roles[model.RoleUser]
	require.True(t, ok, "user role should be created when missing")
	require.NotNil(t, first.RoleID)
	assert.Equal(t, role.ID, *first.RoleID)

	second, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "second@example.com",
		Username: "second",
		Password: "strong-password",
	})
	require.NoError(t, err)
	require.NotNil(t, second.RoleID)
	assert.Equal(t, role.ID, *second.RoleID)
	assert.Len(t, userRepo.roles, 1)
}

func TestResetPasswordUnlocksAccount(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	user := seedUser(t, userRepo, "old-password")
	user.Status = model.UserStatusLocked
	user.LoginAttempts = 5
	svc := newTestService(userRepo, tokenRepo)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "user@example.com"))
	require.Len(t, tokenRepo.reset, 1)

	var token string
	for tok := range tokenRepo.reset {
		token = tok
	}
	require.NoError(t, svc.ResetPassword(context.Background(), token, "brand-new-password"))

	tokens, err := svc.Login(context.Background(), "user@example.com", "brand-new-password")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestPasswordResetDoesNotRevealUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeTokenRepo())
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}
