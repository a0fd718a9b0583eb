package guard

import (
	"errors"
	"strings"

	authclient "github.com/hrkit/authclient"
)

// Action is the kind of decision Authorize produces.
type Action uint8

const (
	// ActionAllow renders the requested route.
	ActionAllow Action = iota
	// ActionPending renders a neutral loading indicator; never a redirect.
	ActionPending
	// ActionRedirect navigates to Decision.Target instead.
	ActionRedirect
)

// String implements fmt.Stringer for log output.
func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionPending:
		return "pending"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of one Authorize evaluation.
type Decision struct {
	Action Action
	// Target is the redirect destination; empty unless Action is ActionRedirect.
	Target string
}

// Rule is one entry of the route table. An empty Roles slice means any
// authenticated identity may enter; Public routes skip authentication
// entirely.
type Rule struct {
	Path   string            `yaml:"path"`
	Public bool              `yaml:"public,omitempty"`
	Roles  []authclient.Role `yaml:"roles,omitempty"`
}

// Table is the ordered route table plus the two well-known destinations.
// Tables are immutable after New.
type Table struct {
	rules        []Rule
	loginRoute   string
	defaultRoute string
}

// New validates the rules and returns an immutable table. Rule order is
// preserved; the first matching rule wins.
func New(rules []Rule, loginRoute, defaultRoute string) (*Table, error) {
	if len(rules) == 0 {
		return nil, errors.New("guard: route table must not be empty")
	}
	if !strings.HasPrefix(loginRoute, "/") {
		return nil, errors.New("guard: login route must start with /")
	}
	if !strings.HasPrefix(defaultRoute, "/") {
		return nil, errors.New("guard: default route must start with /")
	}
	for _, r := range rules {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, errors.New("guard: rule path must start with /")
		}
		if r.Public && len(r.Roles) > 0 {
			return nil, errors.New("guard: public rule cannot carry roles")
		}
	}
	return &Table{
		rules:        append([]Rule(nil), rules...),
		loginRoute:   loginRoute,
		defaultRoute: defaultRoute,
	}, nil
}

// LoginRoute returns the unauthenticated redirect destination.
func (t *Table) LoginRoute() string { return t.loginRoute }

// DefaultRoute returns the authenticated fallback destination.
func (t *Table) DefaultRoute() string { return t.defaultRoute }

// Authorize evaluates one navigation attempt against the session snapshot.
//
// Public routes are always allowed. While the session is authenticating,
// protected routes are pending, never redirected — redirecting during
// hydrate would bounce a valid returning user through the login view.
// Unknown paths and role mismatches fall back to the default route.
func (t *Table) Authorize(snap authclient.Snapshot, path string) Decision {
	rule, matched := t.match(normalizePath(path))

	if matched && rule.Public {
		return Decision{Action: ActionAllow}
	}
	if snap.Phase == authclient.PhaseAuthenticating {
		return Decision{Action: ActionPending}
	}
	if !snap.Authenticated() {
		return Decision{Action: ActionRedirect, Target: t.loginRoute}
	}
	if !matched {
		return Decision{Action: ActionRedirect, Target: t.defaultRoute}
	}
	if len(rule.Roles) > 0 && !roleMember(rule.Roles, snap.Identity.Role) {
		return Decision{Action: ActionRedirect, Target: t.defaultRoute}
	}
	return Decision{Action: ActionAllow}
}

// match returns the first rule whose path equals the request path or is a
// segment-wise prefix of it ("/users" matches "/users/42", not "/users2").
func (t *Table) match(path string) (Rule, bool) {
	for _, r := range t.rules {
		rulePath := normalizePath(r.Path)
		if path == rulePath {
			return r, true
		}
		if rulePath != "/" && strings.HasPrefix(path, rulePath+"/") {
			return r, true
		}
	}
	return Rule{}, false
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func roleMember(roles []authclient.Role, role authclient.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultRules is the route table of the HR front-end: public login, the
// six employee views, and the three restricted admin views.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/login", Public: true},
		{Path: "/dashboard"},
		{Path: "/time-tracking"},
		{Path: "/calendar"},
		{Path: "/absences"},
		{Path: "/documents"},
		{Path: "/profile"},
		{Path: "/users", Roles: []authclient.Role{authclient.RoleAdmin, authclient.RoleHRManager}},
		{Path: "/settings", Roles: []authclient.Role{authclient.RoleAdmin}},
		{Path: "/reports", Roles: []authclient.Role{authclient.RoleAdmin, authclient.RoleHRManager}},
	}
}

// DefaultTable builds the table above with /login and /dashboard as the two
// well-known destinations.
func DefaultTable() *Table {
	t, err := New(DefaultRules(), "/login", "/dashboard")
	if err != nil {
		panic(err) // static input, cannot fail
	}
	return t
}
