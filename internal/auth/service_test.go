package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type fakeRepo struct {
	users  map[int64]User
	otps   map[int64]PasswordResetOTP
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]User{}, otps: map[int64]PasswordResetOTP{}, nextID: 1}
}

func (f *fakeRepo) CreateUser(_ context.Context, user User) (User, error) {
	for _, existing := range f.users {
		if existing.LoginID == user.LoginID {
			return User{}, shared.FieldErrors{"login_id": "already taken"}
		}
		if existing.Email == user.Email {
			return User{}, shared.FieldErrors{"email": "already registered"}
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.IsActive = true
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepo) FindByLoginID(_ context.Context, loginID string) (User, error) {
	for _, u := range f.users {
		if u.LoginID == loginID {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (f *fakeRepo) UpdatePassword(_ context.Context, userID int64, hash string) error {
	u, ok := f.users[userID]
	if !ok {
		return shared.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[userID] = u
	return nil
}

func (f *fakeRepo) InsertOTP(_ context.Context, otp PasswordResetOTP) (PasswordResetOTP, error) {
	otp.ID = f.nextID
	f.nextID++
	otp.CreatedAt = time.Now()
	f.otps[otp.ID] = otp
	return otp, nil
}

func (f *fakeRepo) FindOTP(_ context.Context, userID int64, code string) (PasswordResetOTP, error) {
	var found PasswordResetOTP
	var ok bool
	for _, o := range f.otps {
		if o.UserID == userID && o.Code == code {
			if !ok || o.CreatedAt.After(found.CreatedAt) {
				found, ok = o, true
			}
		}
	}
	if !ok {
		return PasswordResetOTP{}, shared.ErrNotFound
	}
	return found, nil
}

func (f *fakeRepo) MarkOTPUsed(_ context.Context, otpID int64) error {
	o, ok := f.otps[otpID]
	if !ok {
		return shared.ErrNotFound
	}
	o.Used = true
	f.otps[otpID] = o
	return nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendOTP(_ context.Context, _ string, code string, _ time.Duration) error {
	f.sent = append(f.sent, code)
	return nil
}

type fakeTokens struct {
	issued  int
	revoked []string
}

func (f *fakeTokens) Issue(context.Context, shared.Actor) (string, error) {
	f.issued++
	return "token-1", nil
}

func (f *fakeTokens) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func newTestService(repo *fakeRepo, mailer *fakeMailer, tokens *fakeTokens) *Service {
	return NewService(slog.New(slog.DiscardHandler), repo, tokens, mailer, 10*time.Minute)
}

func signupUser(t *testing.T, svc *Service) User {
	t.Helper()
	user, err := svc.Signup(context.Background(), SignupRequest{
		LoginID:  "warehouse1",
		Email:    "ops@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{}, &fakeTokens{})

	cases := []struct {
		name  string
		req   SignupRequest
		field string
	}{
		{"short login", SignupRequest{LoginID: "abc", Email: "a@b.co", Password: "longenough"}, "login_id"},
		{"symbols in login", SignupRequest{LoginID: "user-name!", Email: "a@b.co", Password: "longenough"}, "login_id"},
		{"bad email", SignupRequest{LoginID: "warehouse1", Email: "nope", Password: "longenough"}, "email"},
		{"short password", SignupRequest{LoginID: "warehouse1", Email: "a@b.co", Password: "short"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.req)
			var fields shared.FieldErrors
			require.ErrorAs(t, err, &fields)
			require.Contains(t, fields, tc.field)
		})
	}
}

func TestSignupRejectsDuplicateLoginID(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{}, &fakeTokens{})
	signupUser(t, svc)

	_, err := svc.Signup(context.Background(), SignupRequest{
		LoginID:  "warehouse1",
		Email:    "other@example.com",
		Password: "longenough",
	})
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "login_id")
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeRepo()
	tokens := &fakeTokens{}
	svc := newTestService(repo, &fakeMailer{}, tokens)
	signupUser(t, svc)

	token, user, err := svc.Login(context.Background(), "warehouse1", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "token-1", token)
	require.Equal(t, "warehouse1", user.LoginID)
	require.Equal(t, 1, tokens.issued)

	_, _, err = svc.Login(context.Background(), "warehouse1", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody9999", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer, &fakeTokens{})
	user := signupUser(t, svc)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ops@example.com"))
	require.Len(t, mailer.sent, 1)
	code := mailer.sent[0]
	require.Len(t, code, 6)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), "ops@example.com", code, "new-password"))

	stored := repo.users[user.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))

	// The code is single use.
	err := svc.ConfirmPasswordReset(context.Background(), "ops@example.com", code, "another-pass")
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestPasswordResetRejectsExpiredOTP(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer, &fakeTokens{})
	signupUser(t, svc)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ops@example.com"))
	code := mailer.sent[0]

	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	err := svc.ConfirmPasswordReset(context.Background(), "ops@example.com", code, "new-password")
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestPasswordResetSilentOnUnknownEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(newFakeRepo(), mailer, &fakeTokens{})

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	require.Empty(t, mailer.sent)

	err := svc.ConfirmPasswordReset(context.Background(), "ghost@example.com", "123456", "new-password")
	require.ErrorIs(t, err, ErrInvalidOTP)
}
