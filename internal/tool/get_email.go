package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/api/gmail/v1"
)

// GetEmailRequest are the get_email tool arguments.
type GetEmailRequest struct {
	MessageID string `json:"messageId"`
}

// GetEmailResponse is the get_email tool result.
type GetEmailResponse struct {
	Success bool         `json:"success"`
	Email   *EmailDetail `json:"email,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// EmailDetail is the fixed field selection shaped from the provider's full
// message record.
type EmailDetail struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
}

type getEmailSvc interface {
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
}

// NewGetEmail creates the get_email tool.
func NewGetEmail(svc getEmailSvc, log *slog.Logger) *GetEmail {
	return &GetEmail{
		svc: svc,
		log: log,
	}
}

// GetEmail fetches one message and shapes it into EmailDetail.
type GetEmail struct {
	svc getEmailSvc
	log *slog.Logger
}

// Call implements the tool handler contract.
func (t *GetEmail) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var req GetEmailRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	t.log.Info("fetching email", "messageID", req.MessageID)

	msg, err := t.svc.GetMessage(ctx, req.MessageID)
	if err != nil {
		t.log.Error("fetch failed", "messageID", req.MessageID, "error", err)

		return GetEmailResponse{Success: false, Error: err.Error()}, nil
	}

	detail := &EmailDetail{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
	}
	if msg.Payload != nil {
		detail.From = headerValue(msg.Payload.Headers, "From")
		detail.To = headerValue(msg.Payload.Headers, "To")
		detail.Subject = headerValue(msg.Payload.Headers, "Subject")
		detail.Date = headerValue(msg.Payload.Headers, "Date")
	}

	return GetEmailResponse{Success: true, Email: detail}, nil
}

func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}

	return ""
}
