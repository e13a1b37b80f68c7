package notification

import "log/slog"

// LogNotifier logs emails instead of sending them. Used when SMTP is not
// configured, typically in development.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerificationEmail(to, name, token string) error {
	n.logger.Info("verification email (not sent: SMTP disabled)", "to", to, "token", token)
	return nil
}

func (n *LogNotifier) SendPasswordResetEmail(to, name, token string) error {
	n.logger.Info("password reset email (not sent: SMTP disabled)", "to", to, "token", token)
	return nil
}

func (n *LogNotifier) SendWelcomeEmail(to, name string) error {
	n.logger.Info("welcome email (not sent: SMTP disabled)", "to", to)
	return nil
}
