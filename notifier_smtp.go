package identity

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/gomail.v2"
)

// SMTPNotifier sends account emails through an SMTP relay.
type SMTPNotifier struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier builds a notifier that links back to baseURL in the
// email bodies.
func NewSMTPNotifier(host string, port int, username, password, from, baseURL string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
	}
}

func (n *SMTPNotifier) SendConfirmation(ctx context.Context, email, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Confirm your email address")

	body := fmt.Sprintf(`
		<h3>Confirm your email address</h3>
		<p>Thanks for signing up. Click the link below to activate your account.</p>
		<p><a href="%s/confirm-email/%s">Confirm email</a></p>
		<p>The link expires shortly. If you did not sign up, ignore this email.</p>
	`, n.baseURL, token)

	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "failed to send confirmation email")
	}

	return nil
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset request")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p><a href="%s/password-reset/%s">Reset password</a></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, n.baseURL, token)

	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "failed to send password reset email")
	}

	return nil
}
