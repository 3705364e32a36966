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

func (s *EmailService) SendVerificationEmail(email, token string) error {
	verifyURL := fmt.Sprintf("%s/api/v1/auth/verify/%s", s.appURL, token)
	subject, body := verificationEmailTemplate(verifyURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "email_verify", "to", email, "subject", subject, "url", verifyURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "email_verify", "to", email)
	}
	return err
}

func (s *EmailService) SendPasswordResetEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	subject, body := passwordResetEmailTemplate(resetURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "password_reset", "to", email, "subject", subject, "url", resetURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "password_reset", "to", email)
	}
	return err
}
