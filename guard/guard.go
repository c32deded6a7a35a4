package guard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Kind is the outcome of a guard evaluation.
type Kind int

const (
	Allow Kind = iota
	RedirectLogin
	RedirectUnauthorized
	RedirectNotFound
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	case RedirectNotFound:
		return "redirect-not-found"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Decision is what the guard decided for a requested path. From holds the
// originally requested location when the user is sent to log in.
type Decision struct {
	Kind   Kind
	Target string
	From   string
}

// Location is the URL to navigate to. Login redirects carry the original path in ?from=.
func (d Decision) Location() string {
	if d.Kind == RedirectLogin && d.From != "" {
		return d.Target + "?from=" + url.QueryEscape(d.From)
	}
	return d.Target
}

// Session is the read side of the session the guard consults.
type Session interface {
	IsAuthenticated() bool
	HasRole(roles ...string) bool
}

type resolved struct {
	path      string
	segments  []string
	public    bool
	protected bool
	roles     []string
	depth     int
}

// Guard decides synchronously whether a view may be shown.
type Guard struct {
	routes           []resolved
	loginPath        string
	unauthorizedPath string
	notFoundPath     string
	unknownNotFound  bool
	logger           zerolog.Logger
}

type Option func(*Guard)

// WithUnknownAsNotFound sends unmatched paths to the not-found view instead of treating them as protected.
func WithUnknownAsNotFound() Option {
	return func(g *Guard) {
		g.unknownNotFound = true
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Guard) {
		g.logger = l
	}
}

// WithPaths overrides the login, unauthorized and not-found targets.
func WithPaths(login, unauthorized, notFound string) Option {
	return func(g *Guard) {
		g.loginPath = login
		g.unauthorizedPath = unauthorized
		g.notFoundPath = notFound
	}
}

// New builds a guard over routes.
func New(routes []Route, opts ...Option) *Guard {
	g := &Guard{
		loginPath:        PathLogin,
		unauthorizedPath: PathUnauthorized,
		notFoundPath:     PathNotFound,
		logger:           log.Logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, r := range routes {
		g.routes = flatten(g.routes, r, false, nil, 0)
	}
	return g
}

// Default builds a guard over DefaultRoutes.
func Default(opts ...Option) *Guard {
	return New(DefaultRoutes(), opts...)
}

func flatten(out []resolved, r Route, parentProtected bool, parentRoles []string, depth int) []resolved {
	roles := parentRoles
	if len(r.Roles) > 0 {
		roles = r.Roles
	}
	protected := !r.Public && (r.Protected || parentProtected || len(roles) > 0)

	clean := cleanPath(r.Path)
	out = append(out, resolved{
		path:      clean,
		segments:  splitPath(clean),
		public:    r.Public,
		protected: protected,
		roles:     roles,
		depth:     depth,
	})
	for _, c := range r.Children {
		out = flatten(out, c, protected, roles, depth+1)
	}
	return out
}

// Evaluate decides whether path may be shown to session. A nil session is anonymous.
func (g *Guard) Evaluate(path string, session Session) Decision {
	from := path
	route, ok := g.match(cleanPath(path))

	if !ok {
		if g.unknownNotFound {
			return Decision{Kind: RedirectNotFound, Target: g.notFoundPath}
		}
		// Unlisted paths are never public and keep the roles of the nearest declared ancestor.
		route = resolved{protected: true}
		if parent, found := g.ancestor(cleanPath(path)); found {
			route.roles = parent.roles
		}
	}

	if route.public || !route.protected {
		return Decision{Kind: Allow, Target: from}
	}

	if session == nil || !session.IsAuthenticated() {
		g.logger.Debug().Str("path", from).Msg("guard: login required")
		return Decision{Kind: RedirectLogin, Target: g.loginPath, From: from}
	}

	if len(route.roles) > 0 && !session.HasRole(route.roles...) {
		g.logger.Debug().Str("path", from).Strs("roles", route.roles).Msg("guard: role not permitted")
		return Decision{Kind: RedirectUnauthorized, Target: g.unauthorizedPath}
	}

	return Decision{Kind: Allow, Target: from}
}

// match returns the most specific route for path: most literal segments first, then the deepest declaration.
func (g *Guard) match(path string) (resolved, bool) {
	segments := splitPath(path)

	best, bestScore, found := resolved{}, -1, false
	for _, r := range g.routes {
		score, ok := matchSegments(r.segments, segments)
		if !ok {
			continue
		}
		if score > bestScore || (score == bestScore && r.depth > best.depth) {
			best, bestScore, found = r, score, true
		}
	}
	return best, found
}

// ancestor returns the declared route covering the longest leading part of
// path. The root route never counts as an ancestor.
func (g *Guard) ancestor(path string) (resolved, bool) {
	segments := splitPath(path)

	best, bestLen, bestScore, found := resolved{}, 0, -1, false
	for _, r := range g.routes {
		n := len(r.segments)
		if n == 0 || n >= len(segments) {
			continue
		}
		score, ok := matchSegments(r.segments, segments[:n])
		if !ok {
			continue
		}
		if n > bestLen || (n == bestLen && (score > bestScore || (score == bestScore && r.depth > best.depth))) {
			best, bestLen, bestScore, found = r, n, score, true
		}
	}
	return best, found
}

// matchSegments compares a route pattern to a path. :name segments match any
// single segment. The score is the number of literal segments matched.
func matchSegments(pattern, path []string) (int, bool) {
	if len(pattern) != len(path) {
		return 0, false
	}
	score := 0
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") && path[i] != "" {
			continue
		}
		if p != path[i] {
			return 0, false
		}
		score++
	}
	return score, true
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(p, "/")
	return p
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
