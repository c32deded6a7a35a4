package bookings

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/paging"
	"github.com/jrsteele09/go-events-client/internal/validation"
)

const basePath = "/v1/bookings"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type NestedCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type NestedEvent struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Date        string         `json:"date"`
	Location    string         `json:"location"`
	Category    NestedCategory `json:"category"`
	ImageURL    string         `json:"imageUrl,omitempty"`
}

type NestedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Booking struct {
	ID              int64       `json:"id"`
	Event           NestedEvent `json:"event"`
	User            NestedUser  `json:"user"`
	Status          Status      `json:"status"`
	NumberOfTickets int         `json:"numberOfTickets"`
	TotalPrice      float64     `json:"totalPrice"`
	BookingDate     string      `json:"bookingDate"`
}

// Request books tickets. A zero UserID books for the signed in user.
type Request struct {
	EventID         int64 `json:"eventId" validate:"gt=0"`
	UserID          int64 `json:"userId,omitempty" validate:"gte=0"`
	NumberOfTickets int   `json:"numberOfTickets" validate:"gte=1"`
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Create(ctx context.Context, req Request) (*Booking, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	var b Booking
	if err := s.client.PostJSON(ctx, basePath, req, &b); err != nil {
		return nil, fmt.Errorf("[bookings.Create] %w", err)
	}
	return &b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/%d", basePath, id), nil, &b); err != nil {
		return nil, fmt.Errorf("[bookings.Get] %w", err)
	}
	return &b, nil
}

func (s *Service) ByUser(ctx context.Context, userID int64, p paging.Params) (*paging.Page[Booking], error) {
	return s.page(ctx, fmt.Sprintf("%s/user/%d", basePath, userID), p)
}

func (s *Service) ByEvent(ctx context.Context, eventID int64, p paging.Params) (*paging.Page[Booking], error) {
	return s.page(ctx, fmt.Sprintf("%s/event/%d", basePath, eventID), p)
}

func (s *Service) page(ctx context.Context, path string, p paging.Params) (*paging.Page[Booking], error) {
	q, err := p.Values()
	if err != nil {
		return nil, err
	}
	var page paging.Page[Booking]
	if err := s.client.GetJSON(ctx, path, q, &page); err != nil {
		return nil, fmt.Errorf("[bookings.page] %w", err)
	}
	return &page, nil
}

// UpdateStatus moves a booking to status. The status travels as a query parameter.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, validation.Errors{"status": "must be one of PENDING CONFIRMED REJECTED CANCELLED"}
	}
	var b Booking
	q := url.Values{"status": {string(status)}}
	if err := s.client.PatchJSON(ctx, fmt.Sprintf("%s/%d/status", basePath, id), q, nil, &b); err != nil {
		return nil, fmt.Errorf("[bookings.UpdateStatus] %w", err)
	}
	return &b, nil
}

// Cancel cancels a booking. The backend keeps it with status CANCELLED.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), nil); err != nil {
		return fmt.Errorf("[bookings.Cancel] %w", err)
	}
	return nil
}
