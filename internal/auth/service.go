package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// ErrInvalidOTP covers wrong, expired and already-used reset codes. The
// message never says which, to avoid leaking code state to a guesser.
var ErrInvalidOTP = errors.New("invalid or expired code")

var loginIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{6,12}$`)
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// Mailer delivers reset codes out of band. The worker-backed implementation
// enqueues an asynq task; tests substitute a recorder.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// TokenIssuer is the slice of shared.TokenManager the service needs.
type TokenIssuer interface {
	Issue(ctx context.Context, actor shared.Actor) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Service wraps account and credential business rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
	tokens TokenIssuer
	mailer Mailer
	otpTTL time.Duration

	now func() time.Time
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository, tokens TokenIssuer, mailer Mailer, otpTTL time.Duration) *Service {
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}
	return &Service{
		logger: logger,
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

// SignupRequest carries new-account fields.
type SignupRequest struct {
	LoginID  string `json:"login_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, error) {
	req.LoginID = strings.TrimSpace(req.LoginID)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	fields := shared.FieldErrors{}
	if !loginIDPattern.MatchString(req.LoginID) {
		fields["login_id"] = "must be 6-12 letters or digits"
	}
	if !emailPattern.MatchString(req.Email) {
		fields["email"] = "must be a valid email address"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return User{}, fields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, User{
		LoginID:      req.LoginID,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, loginID, password string) (string, User, error) {
	user, err := s.repo.FindByLoginID(ctx, strings.TrimSpace(loginID))
	if err != nil {
		return "", User{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", User{}, shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, shared.Actor{ID: user.ID, LoginID: user.LoginID})
	if err != nil {
		return "", User{}, fmt.Errorf("auth: issue token: %w", err)
	}
	return token, user, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// RequestPasswordReset generates and delivers a reset code. It reports
// success even when the email is unknown so callers cannot enumerate
// accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("auth: generate otp: %w", err)
	}
	otp := PasswordResetOTP{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if _, err := s.repo.InsertOTP(ctx, otp); err != nil {
		return fmt.Errorf("auth: store otp: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, user.Email, code, s.otpTTL); err != nil {
		// The code row exists; delivery failure only costs the user a retry.
		s.logger.Error("otp delivery failed", slog.Any("error", err))
	}
	return nil
}

// ConfirmPasswordReset swaps the password if the code is valid, unexpired
// and unused. The code is consumed on success.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return shared.FieldErrors{"password": "must be at least 8 characters"}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	otp, err := s.repo.FindOTP(ctx, user.ID, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if otp.Used || otp.Expired(s.now()) {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return s.repo.MarkOTPUsed(ctx, otp.ID)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
