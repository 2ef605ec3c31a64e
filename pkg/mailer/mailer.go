package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer sends transactional mail for the portal.
type Mailer interface {
	SendVerificationEmail(toEmail, toName, token string) error
	SendWelcomeEmail(toEmail, toName string) error
}

type smtpMailer struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	baseURL   string
}

// NewSMTPMailer builds a Mailer from SMTP_* environment variables. When
// credentials are absent the mailer logs instead of sending, so local
// development never needs a mail server.
func NewSMTPMailer() Mailer {
	return &smtpMailer{
		host:      valueOrDefault("SMTP_HOST", "localhost"),
		port:      valueOrDefault("SMTP_PORT", "587"),
		username:  os.Getenv("SMTP_USERNAME"),
		password:  os.Getenv("SMTP_PASSWORD"),
		fromEmail: valueOrDefault("SMTP_FROM", "noreply@clubhub.local"),
		baseURL:   valueOrDefault("APP_BASE_URL", "http://localhost:8080"),
	}
}

func (m *smtpMailer) SendVerificationEmail(toEmail, toName, token string) error {
	verifyURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", m.baseURL, token)

	if m.username == "" || m.password == "" {
		log.Printf("SMTP credentials not configured, verification link for %s: %s", toEmail, verifyURL)
		return nil
	}

	subject := "Verify your email address"
	body := fmt.Sprintf("Hi %s,\r\n\r\nPlease verify your email address by opening the link below:\r\n%s\r\n\r\nThe link expires in 24 hours.\r\n", toName, verifyURL)

	return m.send(toEmail, subject, body)
}

func (m *smtpMailer) SendWelcomeEmail(toEmail, toName string) error {
	if m.username == "" || m.password == "" {
		log.Printf("SMTP credentials not configured, skipping welcome email to %s", toEmail)
		return nil
	}

	subject := "Welcome to ClubHub"
	body := fmt.Sprintf("Hi %s,\r\n\r\nYour email has been verified. You can now discover and join clubs.\r\n", toName)

	return m.send(toEmail, subject, body)
}

func (m *smtpMailer) send(toEmail, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.fromEmail, toEmail, subject, body))

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	return nil
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
