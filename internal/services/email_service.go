package services

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"photoshare/internal/config"
	"photoshare/pkg/rabbitmq"
)

// EmailJob is the message published to the email queue for every
// confirmation mail. The token is already signed when the job is enqueued.
type EmailJob struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Host     string `json:"host"`
	Token    string `json:"token"`
}

// EmailService enqueues confirmation mails on RabbitMQ and, on the consumer
// side, delivers them over SMTP. Sending is best-effort: a publish failure
// is logged and never fails the request that triggered it.
type EmailService struct {
	mqClient *rabbitmq.Client
	auth     *AuthService
	cfg      config.Config
	logger   *zap.SugaredLogger
}

// NewEmailService creates a new EmailService. The MQ client may be nil, in
// which case jobs are dropped with a log line.
func NewEmailService(mqClient *rabbitmq.Client, auth *AuthService, cfg config.Config, logger *zap.SugaredLogger) *EmailService {
	return &EmailService{mqClient: mqClient, auth: auth, cfg: cfg, logger: logger}
}

// SendConfirmation signs an email token for the address and enqueues the
// confirmation mail job.
func (s *EmailService) SendConfirmation(email, username, host string) {
	token, err := s.auth.CreateEmailToken(email)
	if err != nil {
		s.logger.Errorw("failed to create email token", "email", email, "error", err)
		return
	}
	job := EmailJob{Email: email, Username: username, Host: host, Token: token}
	body, err := json.Marshal(job)
	if err != nil {
		s.logger.Errorw("failed to marshal email job", "email", email, "error", err)
		return
	}
	if s.mqClient == nil {
		s.logger.Infow("email queue not configured, skipping confirmation mail", "email", email)
		return
	}
	if err := s.mqClient.Publish(body); err != nil {
		s.logger.Errorw("failed to enqueue confirmation mail", "email", email, "error", err)
	}
}

// HandleEmailJob is the queue consumer callback: it unmarshals a job and
// sends the confirmation mail over SMTP. Returning an error nacks the
// delivery for a retry.
func (s *EmailService) HandleEmailJob(msg amqp.Delivery) error {
	var job EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		s.logger.Errorw("unreadable email job", "error", err)
		// A malformed job will never succeed; acknowledge it by returning nil.
		return nil
	}

	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", job.Host, job.Token)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Welcome to PhotoShare. Please <a href=%q>confirm your email</a>.</p>",
		job.Username, link)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.MailFrom)
	m.SetHeader("To", job.Email)
	m.SetHeader("Subject", "Confirm your email")
	m.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.cfg.MailHost, s.cfg.MailPort, s.cfg.MailUsername, s.cfg.MailPassword)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation mail to %s: %w", job.Email, err)
	}
	s.logger.Infow("confirmation mail sent", "email", job.Email)
	return nil
}
