package users

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/validation"
)

const (
	usersPath = "/v1/users"
	rolesPath = "/v1/roles"
)

// Service manages user accounts through /v1/users.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/%d", usersPath, id), nil, &u); err != nil {
		return nil, fmt.Errorf("[users.Get] %w", err)
	}
	return &u, nil
}

// List returns every user. The endpoint is not paged.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.client.GetJSON(ctx, usersPath, nil, &out); err != nil {
		return nil, fmt.Errorf("[users.List] %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	var u User
	if err := s.client.PutJSON(ctx, fmt.Sprintf("%s/%d", usersPath, id), req, &u); err != nil {
		return nil, fmt.Errorf("[users.Update] %w", err)
	}
	return &u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", usersPath, id), nil); err != nil {
		return fmt.Errorf("[users.Delete] %w", err)
	}
	return nil
}

// RoleService manages roles through /v1/roles.
type RoleService struct {
	client *api.Client
}

func NewRoleService(client *api.Client) *RoleService {
	return &RoleService{client: client}
}

func (s *RoleService) Create(ctx context.Context, req RoleRequest) (*Role, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	var r Role
	if err := s.client.PostJSON(ctx, rolesPath, req, &r); err != nil {
		return nil, fmt.Errorf("[roles.Create] %w", err)
	}
	return &r, nil
}

func (s *RoleService) Get(ctx context.Context, id int64) (*Role, error) {
	var r Role
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/%d", rolesPath, id), nil, &r); err != nil {
		return nil, fmt.Errorf("[roles.Get] %w", err)
	}
	return &r, nil
}

func (s *RoleService) List(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := s.client.GetJSON(ctx, rolesPath, nil, &out); err != nil {
		return nil, fmt.Errorf("[roles.List] %w", err)
	}
	return out, nil
}

func (s *RoleService) Update(ctx context.Context, id int64, req RoleRequest) (*Role, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	var r Role
	if err := s.client.PutJSON(ctx, fmt.Sprintf("%s/%d", rolesPath, id), req, &r); err != nil {
		return nil, fmt.Errorf("[roles.Update] %w", err)
	}
	return &r, nil
}

func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", rolesPath, id), nil); err != nil {
		return fmt.Errorf("[roles.Delete] %w", err)
	}
	return nil
}
