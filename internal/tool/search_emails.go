package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/api/gmail/v1"
)

// SearchEmailsRequest are the search_emails tool arguments.
type SearchEmailsRequest struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"maxResults,omitempty"`
}

// SearchEmailsResponse is the search_emails tool result.
type SearchEmailsResponse struct {
	Success  bool         `json:"success"`
	Count    int          `json:"count,omitempty"`
	Messages []MessageRef `json:"messages,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// MessageRef identifies one matched message.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

type searchEmailsSvc interface {
	ListMessages(ctx context.Context, query string, maxResults int64) (*gmail.ListMessagesResponse, error)
}

// NewSearchEmails creates the search_emails tool.
func NewSearchEmails(svc searchEmailsSvc, log *slog.Logger) *SearchEmails {
	return &SearchEmails{
		svc: svc,
		log: log,
	}
}

// SearchEmails is a read-only pass-through to the provider's message search.
type SearchEmails struct {
	svc searchEmailsSvc
	log *slog.Logger
}

// Call implements the tool handler contract.
func (t *SearchEmails) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var req SearchEmailsRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}
	req.MaxResults = normalizeMaxResults(req.MaxResults)

	t.log.Info("searching emails", "query", req.Query, "maxResults", req.MaxResults)

	result, err := t.svc.ListMessages(ctx, req.Query, req.MaxResults)
	if err != nil {
		t.log.Error("search failed", "query", req.Query, "error", err)

		return SearchEmailsResponse{Success: false, Error: err.Error()}, nil
	}

	messages := make([]MessageRef, 0, len(result.Messages))
	for _, m := range result.Messages {
		messages = append(messages, MessageRef{ID: m.Id, ThreadID: m.ThreadId})
	}

	return SearchEmailsResponse{
		Success:  true,
		Count:    len(messages),
		Messages: messages,
	}, nil
}

func normalizeMaxResults(maxResults int64) int64 {
	if maxResults == 0 {
		return 10
	}
	if maxResults > 50 {
		return 50
	}
	return maxResults
}
