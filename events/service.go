package events

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/paging"
)

const basePath = "/v1/events"

// Service talks to the /v1/events endpoints.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Create posts req as multipart form data, including the image when set.
func (s *Service) Create(ctx context.Context, req Request) (*Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var e Event
	if err := s.client.PostMultipart(ctx, basePath, req.form(), &e); err != nil {
		return nil, fmt.Errorf("[events.Create] %w", err)
	}
	return &e, nil
}

func (s *Service) Update(ctx context.Context, id int64, req Request) (*Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var e Event
	if err := s.client.PutMultipart(ctx, eventPath(id), req.form(), &e); err != nil {
		return nil, fmt.Errorf("[events.Update] %w", err)
	}
	return &e, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	var e Event
	if err := s.client.GetJSON(ctx, eventPath(id), nil, &e); err != nil {
		return nil, fmt.Errorf("[events.Get] %w", err)
	}
	return &e, nil
}

func (s *Service) List(ctx context.Context, p paging.Params) (*paging.Page[Event], error) {
	return s.page(ctx, basePath, p)
}

func (s *Service) ByOrganizer(ctx context.Context, organizerID int64, p paging.Params) (*paging.Page[Event], error) {
	return s.page(ctx, fmt.Sprintf("%s/organizer/%d", basePath, organizerID), p)
}

func (s *Service) SearchByTitle(ctx context.Context, title string, p paging.Params) (*paging.Page[Event], error) {
	return s.page(ctx, basePath+"/search/"+url.PathEscape(title), p)
}

func (s *Service) page(ctx context.Context, path string, p paging.Params) (*paging.Page[Event], error) {
	q, err := p.Values()
	if err != nil {
		return nil, err
	}
	var page paging.Page[Event]
	if err := s.client.GetJSON(ctx, path, q, &page); err != nil {
		return nil, fmt.Errorf("[events.page] %w", err)
	}
	return &page, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, eventPath(id), nil); err != nil {
		return fmt.Errorf("[events.Delete] %w", err)
	}
	return nil
}

// SetReservationApprovalMode switches an event between automatic and manual booking approval.
func (s *Service) SetReservationApprovalMode(ctx context.Context, id int64, mode BookingType) error {
	if mode != BookingAutomatic && mode != BookingManual {
		return fmt.Errorf("[events.SetReservationApprovalMode] unknown booking type %q", mode)
	}
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/%d/%s", basePath, id, mode), nil, nil); err != nil {
		return fmt.Errorf("[events.SetReservationApprovalMode] %w", err)
	}
	return nil
}

// ToggleValidationStatus flips the event's verified flag.
func (s *Service) ToggleValidationStatus(ctx context.Context, id int64) error {
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/status/toggle/%d", basePath, id), nil, nil); err != nil {
		return fmt.Errorf("[events.ToggleValidationStatus] %w", err)
	}
	return nil
}

func eventPath(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}
