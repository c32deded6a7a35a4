package backendfake

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

type NestedCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type NestedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Event struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Description      string         `json:"description"`
	NumberOfSeats    int            `json:"numberOfSeats"`
	Price            float64        `json:"price"`
	Date             string         `json:"date"`
	Location         string         `json:"location"`
	BookingType      string         `json:"bookingType"`
	IsVerified       bool           `json:"isVerified"`
	ImageURL         string         `json:"imageUrl,omitempty"`
	ImageContentType string         `json:"-"`
	Category         NestedCategory `json:"category"`
	Organiser        NestedUser     `json:"organiser"`
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

type Booking struct {
	ID              int64       `json:"id"`
	Event           NestedEvent `json:"event"`
	User            NestedUser  `json:"user"`
	Status          string      `json:"status"`
	NumberOfTickets int         `json:"numberOfTickets"`
	TotalPrice      float64     `json:"totalPrice"`
	BookingDate     string      `json:"bookingDate"`
}

func slugify(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

func nestedUser(u *User) NestedUser {
	return NestedUser{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// resourceStore holds categories, events and bookings.
type resourceStore struct {
	categories map[int64]*Category
	events     map[int64]*Event
	bookings   map[int64]*Booking
	nextID     int64
	lock       sync.RWMutex
}

func newResourceStore() *resourceStore {
	return &resourceStore{
		categories: make(map[int64]*Category),
		events:     make(map[int64]*Event),
		bookings:   make(map[int64]*Booking),
	}
}

func (rs *resourceStore) id() int64 {
	rs.nextID++
	return rs.nextID
}

func (rs *resourceStore) UpsertCategory(c Category) *Category {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	if c.ID == 0 {
		c.ID = rs.id()
	}
	c.Slug = slugify(c.Name)
	rs.categories[c.ID] = &c
	out := c
	return &out
}

func (rs *resourceStore) Category(id int64) (*Category, error) {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	c, ok := rs.categories[id]
	if !ok {
		return nil, errNotFound
	}
	out := *c
	return &out, nil
}

func (rs *resourceStore) Categories() []Category {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	list := make([]Category, 0, len(rs.categories))
	for _, c := range rs.categories {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (rs *resourceStore) DeleteCategory(id int64) error {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	if _, ok := rs.categories[id]; !ok {
		return errNotFound
	}
	delete(rs.categories, id)
	return nil
}

func (rs *resourceStore) UpsertEvent(e Event) *Event {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	if e.ID == 0 {
		e.ID = rs.id()
	}
	e.Slug = slugify(e.Title)
	rs.events[e.ID] = &e
	out := e
	return &out
}

func (rs *resourceStore) Event(id int64) (*Event, error) {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	e, ok := rs.events[id]
	if !ok {
		return nil, errNotFound
	}
	out := *e
	return &out, nil
}

// Events returns the events accepted by filter, ordered by ID.
func (rs *resourceStore) Events(filter func(*Event) bool) []Event {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	list := make([]Event, 0, len(rs.events))
	for _, e := range rs.events {
		if filter == nil || filter(e) {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (rs *resourceStore) MutateEvent(id int64, fn func(*Event)) (*Event, error) {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	e, ok := rs.events[id]
	if !ok {
		return nil, errNotFound
	}
	fn(e)
	out := *e
	return &out, nil
}

func (rs *resourceStore) DeleteEvent(id int64) error {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	if _, ok := rs.events[id]; !ok {
		return errNotFound
	}
	delete(rs.events, id)
	return nil
}

func (rs *resourceStore) CreateBooking(e *Event, u *User, tickets int) (*Booking, error) {
	if tickets <= 0 {
		return nil, errors.New("numberOfTickets must be positive")
	}

	rs.lock.Lock()
	defer rs.lock.Unlock()

	booked := 0
	for _, b := range rs.bookings {
		if b.Event.ID == e.ID && b.Status != "CANCELLED" && b.Status != "REJECTED" {
			booked += b.NumberOfTickets
		}
	}
	if booked+tickets > e.NumberOfSeats {
		return nil, fmt.Errorf("only %d seats left", e.NumberOfSeats-booked)
	}

	status := "PENDING"
	if e.BookingType == "AUTOMATIC" {
		status = "CONFIRMED"
	}
	b := &Booking{
		ID: rs.id(),
		Event: NestedEvent{
			ID: e.ID, Title: e.Title, Slug: e.Slug, Description: e.Description,
			Price: e.Price, Date: e.Date, Location: e.Location, Category: e.Category, ImageURL: e.ImageURL,
		},
		User:            nestedUser(u),
		Status:          status,
		NumberOfTickets: tickets,
		TotalPrice:      e.Price * float64(tickets),
		BookingDate:     time.Now().UTC().Format(time.RFC3339),
	}
	rs.bookings[b.ID] = b
	out := *b
	return &out, nil
}

func (rs *resourceStore) Booking(id int64) (*Booking, error) {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	b, ok := rs.bookings[id]
	if !ok {
		return nil, errNotFound
	}
	out := *b
	return &out, nil
}

func (rs *resourceStore) Bookings(filter func(*Booking) bool) []Booking {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	list := make([]Booking, 0, len(rs.bookings))
	for _, b := range rs.bookings {
		if filter(b) {
			list = append(list, *b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (rs *resourceStore) SetBookingStatus(id int64, status string) (*Booking, error) {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	b, ok := rs.bookings[id]
	if !ok {
		return nil, errNotFound
	}
	b.Status = status
	out := *b
	return &out, nil
}
