package flows

import "context"

// Service is the centralized flow runner built once by the root session.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Login.Exchange != nil
}

func (s Service) ValidateLoginInput(identifier, secret string) error {
	return ValidateLoginInput(identifier, secret, s.deps.Login.Errors)
}

func (s Service) Login(ctx context.Context, identifier, secret string) LoginOutcome {
	return RunLogin(ctx, identifier, secret, s.deps.Login)
}

func (s Service) HydrateLoad(ctx context.Context) HydrateLoadResult {
	return RunHydrateLoad(ctx, s.deps.Hydrate)
}

func (s Service) HydrateFetch(ctx context.Context, credential string) HydrateFetchOutcome {
	return RunHydrateFetch(ctx, credential, s.deps.Hydrate)
}

func (s Service) Logout(ctx context.Context, credential string) error {
	return RunLogout(ctx, credential, s.deps.Logout)
}

func (s Service) ValidateChangeInput(oldSecret, newSecret string) error {
	return ValidateChangeInput(oldSecret, newSecret, s.deps.ChangePassword)
}

func (s Service) ChangePassword(ctx context.Context, credential, oldSecret, newSecret string) ChangePasswordOutcome {
	return RunChangePassword(ctx, credential, oldSecret, newSecret, s.deps.ChangePassword)
}
