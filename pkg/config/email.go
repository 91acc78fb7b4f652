package config

import (
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/notification"
)

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:"noreply@example.com"`
	Password string `env:"EMAIL_PASSWORD" env-default:"pwd"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}

// ResendConfig holds Resend API email configuration
type ResendConfig struct {
	APIKey string `env:"RESEND_API_KEY"`
	From   string `env:"RESEND_FROM"`
}

// IsConfigured returns true if Resend is configured
func (r ResendConfig) IsConfigured() bool {
	return r.APIKey != "" && r.From != ""
}

// ToNotificationResendConfig converts the config to a notification.ResendConfig
func (r ResendConfig) ToNotificationResendConfig() notification.ResendConfig {
	return notification.ResendConfig{
		APIKey: r.APIKey,
		From:   r.From,
	}
}
