package flows

// Deps groups flow dependency sets. The root session builds this once and
// delegates operation bodies to the matching flow implementation.
type Deps struct {
	Login          LoginDeps
	Hydrate        HydrateDeps
	Logout         LogoutDeps
	ChangePassword ChangePasswordDeps
}
