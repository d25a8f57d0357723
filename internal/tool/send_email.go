package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// DryRunMessageID is the synthetic identifier returned instead of a real
// Gmail message ID when dry-run mode suppresses the send.
const DryRunMessageID = "DRY_RUN_MESSAGE_ID"

// SendEmailRequest are the send_email tool arguments.
type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	CC      string `json:"cc,omitempty"`
	BCC     string `json:"bcc,omitempty"`
}

// SendEmailResponse is the send_email tool result.
type SendEmailResponse struct {
	Success   bool           `json:"success"`
	MessageID string         `json:"messageId,omitempty"`
	ThreadID  string         `json:"threadId,omitempty"`
	To        string         `json:"to,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	DryRun    bool           `json:"dryRun,omitempty"`
	Details   *DryRunDetails `json:"details,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// DryRunDetails echoes what would have been sent.
type DryRunDetails struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	BodyLength int    `json:"bodyLength"`
}

type sendEmailSvc interface {
	Send(ctx context.Context, raw string) (*gmail.Message, error)
}

// NewSendEmail creates the send_email tool. With dryRun set the gateway is
// never called and a synthetic result is returned instead.
func NewSendEmail(svc sendEmailSvc, dryRun bool, log *slog.Logger) *SendEmail {
	return &SendEmail{
		svc:    svc,
		dryRun: dryRun,
		log:    log,
	}
}

// SendEmail performs the direct provider send. Approval of the message is a
// caller-side policy: agents are expected to run draft_email first and call
// this only after the draft was approved out-of-band.
type SendEmail struct {
	svc    sendEmailSvc
	dryRun bool
	log    *slog.Logger
}

// Call implements the tool handler contract.
func (t *SendEmail) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var req SendEmailRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	t.log.Info("sending email", "to", req.To, "subject", req.Subject)

	if t.dryRun {
		t.log.Warn("dry run, suppressing provider send", "to", req.To)

		return SendEmailResponse{
			Success:   true,
			MessageID: DryRunMessageID,
			DryRun:    true,
			Details: &DryRunDetails{
				To:         req.To,
				Subject:    req.Subject,
				BodyLength: len(req.Body),
			},
		}, nil
	}

	msg, err := t.svc.Send(ctx, encodeEnvelope(req))
	if err != nil {
		t.log.Error("send failed", "to", req.To, "error", err)

		return SendEmailResponse{Success: false, Error: err.Error()}, nil
	}

	t.log.Info("email sent", "messageID", msg.Id)

	return SendEmailResponse{
		Success:   true,
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		To:        req.To,
		Subject:   req.Subject,
	}, nil
}

// encodeEnvelope assembles the RFC 822 message and encodes it the way the
// Gmail API expects raw payloads: base64url without padding.
func encodeEnvelope(req SendEmailRequest) string {
	parts := make([]string, 0, 7)
	parts = append(parts, "To: "+req.To)
	if req.Subject != "" {
		parts = append(parts, "Subject: "+req.Subject)
	}
	if req.CC != "" {
		parts = append(parts, "Cc: "+req.CC)
	}
	if req.BCC != "" {
		parts = append(parts, "Bcc: "+req.BCC)
	}
	parts = append(parts, "Content-Type: text/html; charset=utf-8", "", req.Body)

	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, "\n")))
}
