package authclient

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrkit/authclient/api"
	"github.com/hrkit/authclient/internal/flows"
	"github.com/hrkit/authclient/jwt"
	"github.com/hrkit/authclient/vault"
)

// Builder assembles a Session step by step. The zero value is not usable;
// start with New.
//
//	session, err := authclient.New().
//		WithConfig(cfg).
//		WithAuditSink(sink).
//		Build()
type Builder struct {
	cfg        Config
	err        error
	backend    Backend
	vault      vault.Vault
	httpClient *http.Client
	sink       AuditSink
	now        func() time.Time
}

// New returns a builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
		now: time.Now,
	}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cloneConfig(cfg)
	return b
}

// WithConfigFile loads the configuration from a YAML file. A load failure
// is reported by Build.
func (b *Builder) WithConfigFile(path string) *Builder {
	cfg, err := LoadConfig(path)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// WithBackend substitutes the backend adapter. When set, API configuration
// is ignored and no HTTP client is constructed.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend
	return b
}

// WithVault substitutes the persisted credential slot, overriding the
// vault configuration.
func (b *Builder) WithVault(v vault.Vault) *Builder {
	b.vault = v
	return b
}

// WithHTTPClient overrides the HTTP client used by the default backend
// adapter.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithAuditSink sets the sink receiving audit events. Audit emission is
// still gated by the Audit configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithNow overrides the clock used for the local expiry peek.
func (b *Builder) WithNow(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build validates the configuration and assembles the session. The session
// starts Unauthenticated; call Hydrate to restore persisted state.
func (b *Builder) Build() (*Session, error) {
	if b.err != nil {
		return nil, b.err
	}
	cfg := cloneConfig(b.cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil {
		if cfg.API.BaseURL == "" {
			return nil, errors.New("API BaseURL is required without an injected backend")
		}
		client, err := api.New(api.Config{
			BaseURL:    cfg.API.BaseURL,
			Timeout:    cfg.API.Timeout,
			UserAgent:  cfg.API.UserAgent,
			HTTPClient: b.httpClient,
		})
		if err != nil {
			return nil, err
		}
		backend = &backendAdapter{client: client}
	}

	credentialVault := b.vault
	if credentialVault == nil {
		var err error
		credentialVault, err = buildVault(cfg.Vault)
		if err != nil {
			return nil, err
		}
	}

	sink := b.sink
	if sink == nil {
		sink = NoOpSink{}
	}

	policy := cfg.Password.Policy()
	skew := cfg.Hydrate.ClockSkew
	now := b.now
	if now == nil {
		now = time.Now
	}

	session := &Session{
		cfg:     cfg,
		vault:   credentialVault,
		metrics: NewMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, sink),
		phase:   PhaseUnauthenticated,
	}

	session.flow = flows.New(flows.Deps{
		Login: flows.LoginDeps{
			Exchange: func(ctx context.Context, identifier, secret string) (*flows.GrantRecord, error) {
				grant, err := backend.ExchangeCredentials(ctx, identifier, secret)
				if err != nil {
					return nil, err
				}
				if grant == nil {
					return nil, nil
				}
				return &flows.GrantRecord{
					Credential: grant.Credential,
					Identity:   recordFromIdentity(grant.Identity),
				}, nil
			},
			Errors: flows.LoginErrors{
				IdentifierRequired: ErrIdentifierRequired,
				IdentifierInvalid:  ErrIdentifierInvalid,
				SecretRequired:     ErrSecretRequired,
				InvalidCredentials: ErrInvalidCredentials,
				BackendUnavailable: ErrBackendUnavailable,
			},
		},
		Hydrate: flows.HydrateDeps{
			LoadCredential:  credentialVault.Load,
			ClearCredential: credentialVault.Clear,
			CredentialDead: func(credential string, now time.Time) bool {
				claims, err := jwt.Peek(credential)
				if err != nil {
					return true
				}
				return claims.Expired(now.Add(-skew))
			},
			FetchIdentity: func(ctx context.Context, credential string) (*flows.IdentityRecord, error) {
				identity, err := backend.CurrentIdentity(ctx, credential)
				if err != nil {
					return nil, err
				}
				if identity == nil {
					return nil, nil
				}
				record := recordFromIdentity(*identity)
				return &record, nil
			},
			Now:                  now,
			NoCredential:         vault.ErrNoCredential,
			Corrupt:              vault.ErrCorrupt,
			RetainOnNetworkError: cfg.Hydrate.RetainCredentialOnNetworkError,
		},
		Logout: flows.LogoutDeps{
			ClearCredential: credentialVault.Clear,
			Notify:          backend.NotifyLogout,
			NotifyFailed: func(err error) {
				log.Print("authclient: logout notification failed")
			},
		},
		ChangePassword: flows.ChangePasswordDeps{
			CheckPolicy: func(secret string) error {
				return policy.Check(secret)
			},
			Change: backend.ChangePassword,
			Errors: flows.ChangePasswordErrors{
				SecretRequired:     ErrSecretRequired,
				PasswordPolicy:     ErrPasswordPolicy,
				CredentialRejected: ErrCredentialRejected,
				BackendRejected:    ErrInvalidCredentials,
				BackendUnavailable: ErrBackendUnavailable,
			},
		},
	})

	return session, nil
}

func buildVault(cfg VaultConfig) (vault.Vault, error) {
	switch cfg.Backend {
	case "memory":
		return vault.NewMemory(), nil
	case "file":
		if cfg.Passphrase != "" {
			return vault.NewEncryptedFile(cfg.Path, []byte(cfg.Passphrase)), nil
		}
		return vault.NewFile(cfg.Path), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return vault.NewRedis(client, cfg.RedisKey, cfg.RedisTTL), nil
	default:
		return nil, errors.New("Vault Backend must be 'memory', 'file', or 'redis'")
	}
}

// backendAdapter bridges the HTTP client to the Backend interface the flows
// are wired against.
type backendAdapter struct {
	client *api.Client
}

func (a *backendAdapter) ExchangeCredentials(ctx context.Context, identifier, secret string) (*LoginGrant, error) {
	resp, err := a.client.Login(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	return &LoginGrant{
		Credential: resp.Credential,
		Identity:   identityFromAPI(resp.Identity),
	}, nil
}

func (a *backendAdapter) CurrentIdentity(ctx context.Context, credential string) (*Identity, error) {
	apiIdentity, err := a.client.Me(ctx, credential)
	if err != nil {
		return nil, err
	}
	identity := identityFromAPI(*apiIdentity)
	return &identity, nil
}

func (a *backendAdapter) ChangePassword(ctx context.Context, credential, oldSecret, newSecret string) (string, error) {
	return a.client.ChangePassword(ctx, credential, oldSecret, newSecret)
}

func (a *backendAdapter) NotifyLogout(ctx context.Context, credential string) error {
	return a.client.Logout(ctx, credential)
}

func identityFromAPI(in api.Identity) Identity {
	return Identity{
		ID:           in.ID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         Role(in.Role),
		Department:   in.Department,
		Position:     in.Position,
		HireDate:     in.HireDate,
		ProfileImage: in.ProfileImage,
	}
}

func recordFromIdentity(in Identity) flows.IdentityRecord {
	return flows.IdentityRecord{
		ID:           in.ID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         string(in.Role),
		Department:   in.Department,
		Position:     in.Position,
		HireDate:     in.HireDate,
		ProfileImage: in.ProfileImage,
	}
}
