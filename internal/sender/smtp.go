package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/jonathan/internship-outreach/internal/types"
)

// SMTPConfig holds transport settings for the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address; usually equal to Username.
	From string
	// SubjectName is the applicant name embedded in the subject line and
	// substituted for the body's signature placeholder.
	SubjectName string
}

// SMTPSender sends application emails over SMTP with STARTTLS.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) client() (*mail.Client, error) {
	return mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(30*time.Second),
	)
}

// Send builds and delivers one message. The draft's signature placeholder is
// replaced with the applicant name just before dispatch.
func (s *SMTPSender) Send(ctx context.Context, rec *types.CompanyRecord, draft *types.DraftedEmail) error {
	if draft.AttachmentRef != "" {
		if _, err := os.Stat(draft.AttachmentRef); err != nil {
			return &PermanentError{Message: fmt.Sprintf("attachment missing: %s", draft.AttachmentRef), Cause: err}
		}
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return &PermanentError{Message: "invalid sender address", Cause: err}
	}
	if err := msg.To(rec.Email); err != nil {
		return &PermanentError{Message: fmt.Sprintf("invalid recipient address %q", rec.Email), Cause: err}
	}
	msg.Subject(draft.Subject)
	msg.SetBodyString(mail.TypeTextPlain, personalize(draft.Body, s.cfg.SubjectName))
	if draft.AttachmentRef != "" {
		// Existence was checked above; the file itself is read at send time.
		msg.AttachFile(draft.AttachmentRef)
	}

	client, err := s.client()
	if err != nil {
		return &TransientError{Message: "creating SMTP client", Cause: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return classify(err)
	}

	s.logger.Info("email delivered",
		zap.String("company", rec.Company), zap.String("to", rec.Email))
	return nil
}

// CheckConnection dials and authenticates without sending anything.
func (s *SMTPSender) CheckConnection(ctx context.Context) error {
	client, err := s.client()
	if err != nil {
		return fmt.Errorf("smtp: creating client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp: dial %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	return client.Close()
}

// classify maps a transport error onto the retryability taxonomy. Temporary
// SMTP rejections and network trouble are transient; hard rejections
// (refused recipient, policy) are permanent.
func classify(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		if sendErr.IsTemp() {
			return &TransientError{Message: "temporary SMTP rejection", Cause: err}
		}
		switch sendErr.Reason {
		case mail.ErrSMTPRcptTo, mail.ErrSMTPMailFrom:
			return &PermanentError{Message: "address rejected by server", Cause: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Message: "network failure", Cause: err}
	}

	// Unknown transport failures stay retryable; a later run may succeed.
	return &TransientError{Message: "delivery failed", Cause: err}
}

// personalize substitutes the generator's signature placeholder.
func personalize(body, name string) string {
	return strings.ReplaceAll(body, "[FULL NAME]", name)
}
