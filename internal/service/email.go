package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendPasswordResetEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	subject := fmt.Sprintf("Reset your %s password", s.appName)
	body := fmt.Sprintf(
		"Someone requested a password reset for your %s account.\n\n"+
			"Reset your password here: %s\n\n"+
			"The link expires in one hour. If this wasn't you, ignore this email.",
		s.appName, resetURL,
	)

	return s.send("password_reset", email, subject, body)
}

func (s *EmailService) SendWelcomeEmail(email string) error {
	subject := fmt.Sprintf("Welcome to %s", s.appName)
	body := fmt.Sprintf(
		"Welcome to %s!\n\n"+
			"Add your first daily goal and start building a streak: %s\n",
		s.appName, s.appURL,
	)

	return s.send("welcome", email, subject, body)
}

func (s *EmailService) send(emailType, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", emailType, "to", to)
	}
	return err
}
