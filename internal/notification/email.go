package notification

import (
	"fmt"
	"net/smtp"
)

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	// AppBaseURL is the client application base URL used to build links.
	AppBaseURL string
}

// EmailService sends account lifecycle emails over SMTP.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendVerificationEmail sends the email address verification link.
func (s *EmailService) SendVerificationEmail(to, name, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.config.AppBaseURL, token)
	subject := "Verify Your Email Address"
	body := fmt.Sprintf(`<html><body>
		<h2>Verify Your Email Address</h2>
		<p>Hi %s,</p>
		<p>Thank you for registering! Please verify your email address to complete your registration.</p>
		<p><a href="%s">Click here to verify your email</a></p>
		<p>Or copy this link to your browser: %s</p>
		<p>This link will expire in 24 hours.</p>
	</body></html>`, name, verifyURL, verifyURL)
	return s.sendEmail(to, subject, body)
}

// SendPasswordResetEmail sends the password reset link.
func (s *EmailService) SendPasswordResetEmail(to, name, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.AppBaseURL, token)
	subject := "Reset Your Password"
	body := fmt.Sprintf(`<html><body>
		<h2>Reset Your Password</h2>
		<p>Hi %s,</p>
		<p>A password reset has been requested for your account.</p>
		<p><a href="%s">Click here to reset your password</a></p>
		<p>Or copy this link to your browser: %s</p>
		<p>This link will expire in 1 hour.</p>
		<p>If you did not request this password reset, please ignore this email.</p>
	</body></html>`, name, resetURL, resetURL)
	return s.sendEmail(to, subject, body)
}

// SendWelcomeEmail sends the post-verification welcome message.
func (s *EmailService) SendWelcomeEmail(to, name string) error {
	subject := "Welcome!"
	body := fmt.Sprintf(`<html><body>
		<h2>Welcome, %s!</h2>
		<p>Your email has been verified and your account is ready to use.</p>
		<p><a href="%s">Sign in to get started</a></p>
	</body></html>`, name, s.config.AppBaseURL)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
