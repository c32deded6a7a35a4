package config

import "time"

type Session struct {
	TTL                time.Duration `mapstructure:"ttl"`
	AdminDashboard     string        `mapstructure:"admin_dashboard"`
	OrganizerDashboard string        `mapstructure:"organizer_dashboard"`
}

var _ SessionConfig = Session{}

func defaultSession() Session {
	return Session{
		TTL:                7 * 24 * time.Hour, // 7 days
		AdminDashboard:     "/dashboard",
		OrganizerDashboard: "/dashboard",
	}
}

// GetSessionTTL is how long stored credentials and the identity snapshot live.
func (s Session) GetSessionTTL() time.Duration {
	if s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s Session) GetAdminDashboard() string {
	if s.AdminDashboard == "" {
		return "/dashboard"
	}
	return s.AdminDashboard
}

// GetOrganizerDashboard is the landing page for organizers. The shared admin
// dashboard is used unless a dedicated one is configured.
func (s Session) GetOrganizerDashboard() string {
	if s.OrganizerDashboard == "" {
		return s.GetAdminDashboard()
	}
	return s.OrganizerDashboard
}
