package guard

import (
	"net/http"

	authclient "github.com/hrkit/authclient"
)

// SnapshotProvider is the read side of the session store.
type SnapshotProvider interface {
	Snapshot() authclient.Snapshot
}

// Middleware adapts Authorize to hosts that render views over HTTP. Pending
// answers 503 with Retry-After so a polling client re-asks once hydrate
// resolves; redirects are 302s with the guard's target.
func Middleware(session SnapshotProvider, table *Table) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session == nil || table == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			decision := table.Authorize(session.Snapshot(), r.URL.Path)
			switch decision.Action {
			case ActionAllow:
				next.ServeHTTP(w, r)
			case ActionPending:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "authenticating", http.StatusServiceUnavailable)
			case ActionRedirect:
				http.Redirect(w, r, decision.Target, http.StatusFound)
			default:
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
		})
	}
}
