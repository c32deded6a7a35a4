package backendfake

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/metrics"
	"github.com/jrsteele09/go-events-client/sessions"
	"github.com/jrsteele09/go-events-client/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// TestPassword is the password of every user created by Env.Login.
const TestPassword = "Passw0rd!"

// Env is a running fake backend with a client session bound to it.
type Env struct {
	Fake     *Server
	HTTP     *httptest.Server
	Slot     *storage.Memory
	Session  *sessions.Context
	Client   *api.Client
	Registry *prometheus.Registry
	Metrics  *metrics.Client

	users atomic.Int64
}

// Start runs a fake backend for the duration of t.
func Start(t testing.TB, opts []Option, clientOpts ...api.Option) *Env {
	t.Helper()

	fake := New(opts...)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	slot := storage.NewMemory()
	session := sessions.New(slot)

	m := metrics.New(reg)
	clientOpts = append([]api.Option{api.WithMetrics(m)}, clientOpts...)
	client, err := api.New(srv.URL, session, clientOpts...)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	return &Env{
		Fake:     fake,
		HTTP:     srv,
		Slot:     slot,
		Session:  session,
		Client:   client,
		Registry: reg,
		Metrics:  m,
	}
}

// NewUser seeds a user with roleID without logging in.
func (e *Env) NewUser(t testing.TB, roleID int64) *User {
	t.Helper()
	n := e.users.Add(1)
	u, err := e.Fake.SeedUser("Test", fmt.Sprintf("User%d", n), fmt.Sprintf("user%d@example.com", n), TestPassword, roleID)
	if err != nil {
		t.Fatalf("SeedUser: %v", err)
	}
	return u
}

// Login seeds a user with roleID and establishes the client session for it.
func (e *Env) Login(t testing.TB, roleID int64) *User {
	t.Helper()
	u := e.NewUser(t, roleID)
	pair, err := e.Fake.IssuePair(u.ID)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := e.Session.Establish(context.Background(), pair); err != nil {
		t.Fatalf("Establish: %v", err)
	}
	e.Fake.Reset()
	return u
}
