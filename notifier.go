package identity

import (
	"context"
	"fmt"
)

// Notifier delivers account emails. Implementations receive the plaintext
// one time token, the stored record only ever holds its digest.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogNotifier prints notifications to stdout. Meant for development
// and tests.
type LogNotifier struct{}

func (LogNotifier) SendConfirmation(ctx context.Context, email, token string) error {
	printEmailNotification(email, "/confirm-email/"+token)
	return nil
}

func (LogNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	printEmailNotification(email, "/password-reset/"+token)
	return nil
}

func printEmailNotification(email, link string) {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", email)
	fmt.Printf("link: %s\n", link)
}
