package authclient

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hrkit/authclient/internal/flows"
	"github.com/hrkit/authclient/vault"
)

// Session is the single authoritative owner of authentication state. It is
// the only writer; the route guard and the view layer consume read-only
// snapshots. Construct through [Builder.Build].
type Session struct {
	mu sync.Mutex

	cfg     Config
	flow    flows.Service
	vault   vault.Vault
	metrics *Metrics
	audit   *auditDispatcher

	phase      Phase
	credential string
	identity   *Identity
	lastError  string

	// generation advances on logout and credential rejection. An in-flight
	// response whose captured generation is stale is discarded, never applied.
	generation uint64

	// inFlight is true while a mutating network operation runs. Mutating
	// callers racing it are rejected without issuing a request.
	inFlight bool

	hydrateStarted bool
	hydrateDone    chan struct{}
	hydrateErr     error
}

// Close flushes and stops the audit dispatcher. The session itself holds no
// other resources.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// Snapshot returns a read-only copy of the session state. The identity is
// copied; mutating the result never affects the session.
func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:      s.phase,
		Credential: s.credential,
		LastError:  s.lastError,
		Generation: s.generation,
	}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}

// MetricsSnapshot returns a deep copy of all recorded metrics.
func (s *Session) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return s.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded under pressure.
func (s *Session) AuditDropped() uint64 {
	if s == nil {
		return 0
	}
	return s.audit.Dropped()
}

// DismissError clears the last user-facing error without any other state
// change.
func (s *Session) DismissError() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// Hydrate restores the session from the persisted credential slot. Only the
// first call in a session lifetime executes; concurrent and later callers
// wait for that call and observe its result. A first call racing another
// mutating operation is rejected with [ErrOperationInFlight] and may be
// retried once that operation settles.
//
// An empty slot and a locally dead token resolve without any network
// activity. Otherwise exactly one identity fetch is issued; any failure
// deauthenticates and, by default, erases the slot.
func (s *Session) Hydrate(ctx context.Context) error {
	if s == nil || !s.flow.Initialized() {
		return ErrSessionNotReady
	}

	s.mu.Lock()
	if s.hydrateStarted {
		done := s.hydrateDone
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		err := s.hydrateErr
		s.mu.Unlock()
		return err
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.hydrateStarted = true
	s.hydrateDone = make(chan struct{})
	s.inFlight = true
	gen := s.generation
	s.mu.Unlock()

	err := s.hydrate(ctx, gen)

	s.mu.Lock()
	s.inFlight = false
	s.hydrateErr = err
	close(s.hydrateDone)
	s.mu.Unlock()
	return err
}

func (s *Session) hydrate(ctx context.Context, gen uint64) error {
	load := s.flow.HydrateLoad(ctx)
	if load.Err != nil {
		log.Print("authclient: credential load failed")
		s.mu.Lock()
		if s.generation == gen {
			s.resetLocked()
			s.lastError = load.Err.Error()
		}
		s.mu.Unlock()
		s.metricInc(MetricHydrateFailure)
		s.emitAudit(ctx, auditEventHydrateFailure, false, "", load.Err, nil)
		return ErrBackendUnavailable
	}
	if load.Credential == "" {
		s.mu.Lock()
		if s.generation == gen {
			s.resetLocked()
		}
		s.mu.Unlock()
		if load.ClearedLocally {
			s.metricInc(MetricHydrateExpiredLocally)
			s.emitAudit(ctx, auditEventHydrateExpired, true, "", nil, nil)
		} else {
			s.metricInc(MetricHydrateNoCredential)
			s.emitAudit(ctx, auditEventHydrateNoCredential, true, "", nil, nil)
		}
		return nil
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return s.discardStale(ctx, "hydrate")
	}
	s.phase = PhaseAuthenticating
	s.credential = load.Credential
	s.lastError = ""
	s.mu.Unlock()

	started := time.Now()
	outcome := s.flow.HydrateFetch(ctx, load.Credential)
	s.metricObserve(MetricRequestLatency, time.Since(started))

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return s.discardStale(ctx, "hydrate")
	}
	if outcome.Identity != nil {
		identity := identityFromRecord(*outcome.Identity)
		s.credential = load.Credential
		s.identity = &identity
		s.phase = PhaseAuthenticated
		s.lastError = ""
		s.mu.Unlock()
		s.metricInc(MetricHydrateSuccess)
		s.emitAudit(ctx, auditEventHydrateSuccess, true, identity.ID, nil, nil)
		return nil
	}

	s.resetLocked()
	s.lastError = outcome.Message
	s.mu.Unlock()
	s.metricInc(MetricHydrateFailure)
	s.emitAudit(ctx, auditEventHydrateFailure, false, "", nil, func() map[string]string {
		return map[string]string{"message": outcome.Message}
	})
	if outcome.Failure == flows.FailureCredentialRejected {
		return ErrCredentialRejected
	}
	return ErrBackendUnavailable
}

// Login exchanges the identifier/secret pair for a credential and identity.
// At most one login request is in flight at a time; a racing call is
// rejected immediately with [ErrOperationInFlight] and issues no request.
func (s *Session) Login(ctx context.Context, identifier, secret string) error {
	if s == nil || !s.flow.Initialized() {
		return ErrSessionNotReady
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.metricInc(MetricLoginRejectedBusy)
		s.emitAudit(ctx, auditEventLoginRejectedBusy, false, "", ErrOperationInFlight, func() map[string]string {
			return map[string]string{"identifier": identifier}
		})
		return ErrOperationInFlight
	}
	if s.phase == PhaseAuthenticated {
		s.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	if err := s.flow.ValidateLoginInput(identifier, secret); err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.metricInc(MetricLoginValidationFailure)
		return err
	}
	s.phase = PhaseAuthenticating
	s.lastError = ""
	s.inFlight = true
	gen := s.generation
	s.mu.Unlock()

	started := time.Now()
	outcome := s.flow.Login(ctx, identifier, secret)
	s.metricObserve(MetricRequestLatency, time.Since(started))

	if outcome.Grant != nil {
		// Persist before applying so a crash right after login still
		// hydrates on restart. A storage failure downgrades to a
		// memory-only session rather than failing the login.
		if err := s.vault.Store(ctx, outcome.Grant.Credential); err != nil {
			log.Print("authclient: credential persist failed")
		}

		s.mu.Lock()
		s.inFlight = false
		if s.generation != gen {
			s.mu.Unlock()
			// Logout raced the exchange; the slot was cleared before we
			// persisted, so clear again and drop the grant.
			if err := s.vault.Clear(ctx); err != nil {
				log.Print("authclient: credential clear failed")
			}
			return s.discardStale(ctx, "login")
		}
		identity := identityFromRecord(outcome.Grant.Identity)
		s.credential = outcome.Grant.Credential
		s.identity = &identity
		s.phase = PhaseAuthenticated
		s.lastError = ""
		s.mu.Unlock()
		s.metricInc(MetricLoginSuccess)
		s.emitAudit(ctx, auditEventLoginSuccess, true, identity.ID, nil, func() map[string]string {
			return map[string]string{"identifier": identifier}
		})
		return nil
	}

	s.mu.Lock()
	s.inFlight = false
	if s.generation != gen {
		s.mu.Unlock()
		return s.discardStale(ctx, "login")
	}
	s.phase = PhaseFailed
	s.lastError = outcome.Message
	s.mu.Unlock()
	s.metricInc(MetricLoginFailure)
	s.emitAudit(ctx, auditEventLoginFailure, false, "", outcome.Err, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
			"message":    outcome.Message,
		}
	})
	return outcome.Err
}

// Logout resets the session to Unauthenticated. It always succeeds locally:
// the persisted slot is erased, the generation advances so any in-flight
// response is discarded, and the backend notification is fire-and-forget.
// Logout is idempotent.
func (s *Session) Logout(ctx context.Context) error {
	if s == nil || !s.flow.Initialized() {
		return ErrSessionNotReady
	}

	s.mu.Lock()
	credential := s.credential
	userID := ""
	if s.identity != nil {
		userID = s.identity.ID
	}
	s.generation++
	s.resetLocked()
	s.mu.Unlock()

	if err := s.flow.Logout(ctx, credential); err != nil {
		log.Print("authclient: credential clear failed")
	}

	s.metricInc(MetricLogout)
	s.emitAudit(ctx, auditEventLogout, true, userID, nil, nil)
	return nil
}

// ChangePassword issues a credential-change request under the existing
// session. The phase never changes on success or ordinary failure; a 401
// means the stored credential itself was rejected and deauthenticates.
func (s *Session) ChangePassword(ctx context.Context, oldSecret, newSecret string) error {
	if s == nil || !s.flow.Initialized() {
		return ErrSessionNotReady
	}

	s.mu.Lock()
	if s.phase != PhaseAuthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	if err := s.flow.ValidateChangeInput(oldSecret, newSecret); err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.metricInc(MetricPasswordChangeFailure)
		return err
	}
	credential := s.credential
	s.lastError = ""
	s.inFlight = true
	gen := s.generation
	userID := s.identity.ID
	s.mu.Unlock()

	started := time.Now()
	outcome := s.flow.ChangePassword(ctx, credential, oldSecret, newSecret)
	s.metricObserve(MetricRequestLatency, time.Since(started))

	s.mu.Lock()
	s.inFlight = false
	if s.generation != gen {
		s.mu.Unlock()
		return s.discardStale(ctx, "change_password")
	}

	if outcome.Err == nil {
		s.lastError = ""
		replaced := outcome.Replacement != "" && outcome.Replacement != s.credential
		if replaced {
			s.credential = outcome.Replacement
		}
		s.mu.Unlock()
		if replaced {
			if err := s.vault.Store(ctx, outcome.Replacement); err != nil {
				log.Print("authclient: credential persist failed")
			}
			s.mu.Lock()
			stale := s.generation != gen
			s.mu.Unlock()
			if stale {
				// Logout raced the persist and its cleared slot was just
				// rewritten; clear again and drop the replacement.
				if err := s.vault.Clear(ctx); err != nil {
					log.Print("authclient: credential clear failed")
				}
				return s.discardStale(ctx, "change_password")
			}
		}
		s.metricInc(MetricPasswordChangeSuccess)
		s.emitAudit(ctx, auditEventPasswordChanged, true, userID, nil, nil)
		return nil
	}

	if outcome.Failure == flows.FailureCredentialRejected {
		s.generation++
		s.resetLocked()
		s.lastError = outcome.Message
		s.mu.Unlock()
		if err := s.vault.Clear(ctx); err != nil {
			log.Print("authclient: credential clear failed")
		}
		s.metricInc(MetricCredentialRejected)
		s.emitAudit(ctx, auditEventCredentialRejected, false, userID, outcome.Err, nil)
		return ErrCredentialRejected
	}

	s.lastError = outcome.Message
	s.mu.Unlock()
	s.metricInc(MetricPasswordChangeFailure)
	s.emitAudit(ctx, auditEventPasswordRejected, false, userID, outcome.Err, func() map[string]string {
		return map[string]string{"message": outcome.Message}
	})
	return outcome.Err
}

// CredentialRejected is the entry point for sibling domain services: when
// any authenticated request of theirs answers 401, the session is
// deauthenticated exactly as if the rejection had happened here.
func (s *Session) CredentialRejected(ctx context.Context) {
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.phase != PhaseAuthenticated {
		s.mu.Unlock()
		return
	}
	userID := ""
	if s.identity != nil {
		userID = s.identity.ID
	}
	s.generation++
	s.resetLocked()
	s.lastError = "your session has expired, log in again"
	s.mu.Unlock()

	if err := s.vault.Clear(ctx); err != nil {
		log.Print("authclient: credential clear failed")
	}
	s.metricInc(MetricCredentialRejected)
	s.emitAudit(ctx, auditEventCredentialRejected, false, userID, ErrCredentialRejected, nil)
}

// resetLocked clears every session field except the generation counter.
// Callers hold s.mu.
func (s *Session) resetLocked() {
	s.phase = PhaseUnauthenticated
	s.credential = ""
	s.identity = nil
	s.lastError = ""
}

// discardStale records that an in-flight response arrived after the session
// generation advanced and was dropped.
func (s *Session) discardStale(ctx context.Context, operation string) error {
	s.metricInc(MetricStaleResponseDiscarded)
	s.emitAudit(ctx, auditEventStaleDiscarded, false, "", ErrSessionSuperseded, func() map[string]string {
		return map[string]string{"operation": operation}
	})
	return ErrSessionSuperseded
}

func (s *Session) metricInc(id MetricID) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Inc(id)
}

func (s *Session) metricObserve(id MetricID, d time.Duration) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Observe(id, d)
}

func (s *Session) emitAudit(ctx context.Context, eventType string, success bool, userID string, err error, meta func() map[string]string) {
	if s == nil || s.audit == nil {
		return
	}
	s.mu.Lock()
	phase := s.phase
	s.mu.Unlock()
	event := AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Phase:     phase.String(),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if meta != nil {
		event.Metadata = meta()
	}
	s.audit.Emit(ctx, event)
}

func identityFromRecord(rec flows.IdentityRecord) Identity {
	return Identity{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        rec.Email,
		Role:         Role(rec.Role),
		Department:   rec.Department,
		Position:     rec.Position,
		HireDate:     rec.HireDate,
		ProfileImage: rec.ProfileImage,
	}
}
