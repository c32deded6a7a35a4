package categories

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/validation"
)

const basePath = "/v1/categories"

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

type Request struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Service manages event categories.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Create(ctx context.Context, req Request) (*Category, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	var c Category
	if err := s.client.PostJSON(ctx, basePath, req, &c); err != nil {
		return nil, fmt.Errorf("[categories.Create] %w", err)
	}
	return &c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/%d", basePath, id), nil, &c); err != nil {
		return nil, fmt.Errorf("[categories.Get] %w", err)
	}
	return &c, nil
}

// List returns all categories. Listing needs no session.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := s.client.GetJSON(ctx, basePath, nil, &out); err != nil {
		return nil, fmt.Errorf("[categories.List] %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, req Request) (*Category, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	var c Category
	if err := s.client.PutJSON(ctx, fmt.Sprintf("%s/%d", basePath, id), req, &c); err != nil {
		return nil, fmt.Errorf("[categories.Update] %w", err)
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), nil); err != nil {
		return fmt.Errorf("[categories.Delete] %w", err)
	}
	return nil
}
