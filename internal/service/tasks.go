package service

import (
	"context"
	"errors"

	"abchub/internal/background"
	"abchub/internal/mirror"
)

// Dispatcher queues fire-and-forget work; *background.Executor satisfies it
type Dispatcher interface {
	Submit(name string, job background.Job) (string, error)
}

// dispatch queues a remote call. The local result never depends on it: a
// dropped or failing task is only logged by the dispatcher, and a disabled
// mirror is not treated as a failure.
func dispatch(tasks Dispatcher, name string, job background.Job) {
	_, _ = tasks.Submit(name, func(ctx context.Context) error {
		if err := job(ctx); err != nil && !errors.Is(err, mirror.ErrDisabled) {
			return err
		}
		return nil
	})
}

// Mailer sends invitation e-mails; *EmailService satisfies it
type Mailer interface {
	IsEnabled() bool
	SendSessionInvite(ctx context.Context, toEmail, hostName, gameName, inviteCode string) error
	SendFriendInvite(ctx context.Context, toEmail, fromName string) error
}
