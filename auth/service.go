package auth

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/validation"
	"github.com/jrsteele09/go-events-client/sessions"
	"github.com/jrsteele09/go-events-client/token"
	"github.com/jrsteele09/go-events-client/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	PathAuth           = "/auth"
	PathLogin          = "/auth/login"
	PathRegister       = "/auth/register"
	PathChangePassword = "/auth/change-password"
	PathMe             = "/auth/me"
)

// Teardown reasons recorded when the service ends a session.
const (
	ReasonLogout         = "logout"
	ReasonAccountDeleted = "account deleted"
)

type authenticationResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         *users.User `json:"user,omitempty"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Session  *sessions.Session
	User     *users.User
	Redirect string
}

// Service runs the account operations that create, change or end a session.
type Service struct {
	client  *api.Client
	session *sessions.Context
	logger  zerolog.Logger
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService binds the service to client and the session it carries.
func NewService(client *api.Client, opts ...Option) *Service {
	s := &Service{
		client:  client,
		session: client.Session(),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the session this service updates.
func (s *Service) Session() *sessions.Context {
	return s.session
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	body := registerBody{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    req.RoleID,
	}
	var u users.User
	if err := s.client.PublicPostJSON(ctx, PathRegister, body, &u); err != nil {
		return nil, fmt.Errorf("[auth.Register] %w", err)
	}
	s.logger.Info().Int64("user_id", u.ID).Msg("account registered")
	return &u, nil
}

// Login exchanges credentials for a token pair and establishes the session.
// The result names the landing page for the user's role.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	var resp authenticationResponse
	if err := s.client.PublicPostJSON(ctx, PathLogin, req, &resp); err != nil {
		return nil, fmt.Errorf("[auth.Login] %w", err)
	}

	sess, err := s.session.Establish(ctx, token.NewPair(resp.Token, resp.RefreshToken))
	if err != nil {
		return nil, fmt.Errorf("[auth.Login] %w", err)
	}

	s.logger.Info().Str("user_id", sess.UserID).Str("role", sess.Role).Msg("logged in")
	return &LoginResult{
		Session:  sess,
		User:     resp.User,
		Redirect: s.session.RedirectPath(),
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if !s.session.IsAuthenticated() {
		return errors.ErrNotAuthenticated
	}
	if err := validation.Struct(&req); err != nil {
		return err
	}

	body := changePasswordBody{OldPassword: req.OldPassword, NewPassword: req.NewPassword}
	if err := s.client.PostJSON(ctx, PathChangePassword, body, nil); err != nil {
		return fmt.Errorf("[auth.ChangePassword] %w", err)
	}
	return nil
}

// Me fetches the current user and refreshes the session's profile from it.
func (s *Service) Me(ctx context.Context) (*users.User, error) {
	if !s.session.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	var u users.User
	if err := s.client.GetJSON(ctx, PathMe, nil, &u); err != nil {
		return nil, fmt.Errorf("[auth.Me] %w", err)
	}
	if _, err := s.session.UpdateProfile(ctx, u.Profile()); err != nil {
		return nil, fmt.Errorf("[auth.Me] %w", err)
	}
	return &u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, req ProfileRequest) (*users.User, error) {
	if !s.session.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	var u users.User
	if err := s.client.PutJSON(ctx, PathAuth, req, &u); err != nil {
		return nil, fmt.Errorf("[auth.UpdateProfile] %w", err)
	}
	if _, err := s.session.UpdateProfile(ctx, u.Profile()); err != nil {
		return nil, fmt.Errorf("[auth.UpdateProfile] %w", err)
	}
	return &u, nil
}

// DeleteAccount deletes the signed in account and ends the session once the backend confirms.
func (s *Service) DeleteAccount(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return errors.ErrNotAuthenticated
	}

	if err := s.client.Delete(ctx, PathAuth, nil); err != nil {
		return fmt.Errorf("[auth.DeleteAccount] %w", err)
	}
	return s.session.Teardown(ctx, ReasonAccountDeleted)
}

// Logout ends the session locally. The backend keeps no session to end.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Teardown(ctx, ReasonLogout)
}
