// Package mail sends account lifecycle mail over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/WilliamDu1981/angular2club/internal/account"
)

type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	SiteBaseURL string
}

// Service delivers activation mail. Callers treat delivery as
// best-effort; errors from here are logged by the caller, not surfaced.
type Service struct {
	client      *gomail.Client
	from        string
	siteBaseURL string
}

func New(cfg Config) (*Service, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client init: %w", err)
	}

	return &Service{
		client:      client,
		from:        cfg.From,
		siteBaseURL: cfg.SiteBaseURL,
	}, nil
}

// SendActivationMail mails the activation link for a freshly created
// local account.
func (s *Service) SendActivationMail(ctx context.Context, a *account.Account) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("activation mail from: %w", err)
	}
	if err := m.To(a.Account); err != nil {
		return fmt.Errorf("activation mail to: %w", err)
	}

	m.Subject("Activate your angular2club account")
	m.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\nActivate your account by opening:\n\n%s/api/users/active/%s\n",
		a.NickName, s.siteBaseURL, a.ID,
	))

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("activation mail send: %w", err)
	}
	return nil
}
