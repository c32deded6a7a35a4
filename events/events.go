package events

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/validation"
)

// BookingType decides whether bookings are confirmed on creation or wait for approval.
type BookingType string

const (
	BookingAutomatic BookingType = "AUTOMATIC"
	BookingManual    BookingType = "MANUAL"
)

// MaxImageSize bounds uploaded event images.
const MaxImageSize = 5 << 20

var imageTypes = []string{"image/jpeg", "image/png", "image/gif"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type NestedCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Organiser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Event struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	NumberOfSeats int            `json:"numberOfSeats"`
	Price         float64        `json:"price"`
	Date          string         `json:"date"`
	Location      string         `json:"location"`
	BookingType   BookingType    `json:"bookingType"`
	IsVerified    bool           `json:"isVerified"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Category      NestedCategory `json:"category"`
	Organiser     Organiser      `json:"organiser"`
}

// Request creates or updates an event. Image is optional; a zero UserID lets
// the backend use the signed in organizer.
type Request struct {
	Title         string      `json:"title" validate:"required,min=3,max=100"`
	Description   string      `json:"description" validate:"required,min=10,max=1000"`
	NumberOfSeats int         `json:"numberOfSeats" validate:"gt=0"`
	Price         float64     `json:"price" validate:"gt=0"`
	Date          string      `json:"date" validate:"required"`
	Location      string      `json:"location" validate:"required,min=3,max=100"`
	BookingType   BookingType `json:"bookingType" validate:"oneof=AUTOMATIC MANUAL"`
	CategoryID    int64       `json:"categoryId" validate:"gt=0"`
	UserID        int64       `json:"userId" validate:"gte=0"`
	Image         *api.File   `json:"-"`
}

// Validate checks the fields and, when present, the image.
func (r *Request) Validate() error {
	fields := validation.Errors{}
	if err := validation.Struct(r); err != nil && !errors.As(err, &fields) {
		return err
	}
	if _, ok := fields["date"]; !ok && !validDate(r.Date) {
		fields["date"] = "must be a valid date"
	}
	if msg := checkImage(r.Image); msg != "" {
		fields["image"] = msg
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func validDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func checkImage(f *api.File) string {
	if f == nil || len(f.Data) == 0 {
		return ""
	}
	if len(f.Data) > MaxImageSize {
		return "must be less than 5MB"
	}
	if !mimetype.EqualsAny(mimetype.Detect(f.Data).String(), imageTypes...) {
		return "must be a valid image (" + strings.Join(imageTypes, ", ") + ")"
	}
	return ""
}

func (r *Request) form() *api.Form {
	f := api.NewForm().
		Set("title", r.Title).
		Set("description", r.Description).
		Set("numberOfSeats", strconv.Itoa(r.NumberOfSeats)).
		Set("price", strconv.FormatFloat(r.Price, 'f', -1, 64)).
		Set("date", r.Date).
		Set("location", r.Location).
		Set("bookingType", string(r.BookingType)).
		Set("categoryId", formatID(r.CategoryID)).
		Set("userId", formatID(r.UserID))
	return f.Attach("image", r.Image)
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("%d", id)
}
