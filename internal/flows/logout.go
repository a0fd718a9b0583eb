package flows

import (
	"context"
	"time"
)

const notifyTimeout = 5 * time.Second

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ClearCredential func(ctx context.Context) error
	Notify          func(ctx context.Context, credential string) error
	// NotifyFailed is invoked when the fire-and-forget notification fails;
	// the local logout has already succeeded by then.
	NotifyFailed func(err error)
}

// RunLogout erases the persisted slot and fires the best-effort backend
// notification. The returned error is the storage failure, if any; the local
// state reset has already been applied by the caller and is never rolled
// back.
func RunLogout(ctx context.Context, credential string, deps LogoutDeps) error {
	err := deps.ClearCredential(ctx)

	if credential != "" && deps.Notify != nil {
		notify := deps.Notify
		failed := deps.NotifyFailed
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if notifyErr := notify(notifyCtx, credential); notifyErr != nil && failed != nil {
				failed(notifyErr)
			}
		}()
	}
	return err
}
