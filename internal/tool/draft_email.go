package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aiemployee/email-mcp/internal/approval"
)

// DraftEmailRequest are the draft_email tool arguments.
type DraftEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Context string `json:"context,omitempty"`
}

// DraftEmailResponse is the draft_email tool result.
type DraftEmailResponse struct {
	Success          bool   `json:"success"`
	DraftPath        string `json:"draftPath,omitempty"`
	RequiresApproval bool   `json:"requiresApproval,omitempty"`
	Error            string `json:"error,omitempty"`
}

type draftQueue interface {
	CreateDraft(to, subject, body, context string) (*approval.Draft, error)
}

// NewDraftEmail creates the draft_email tool.
func NewDraftEmail(queue draftQueue, log *slog.Logger) *DraftEmail {
	return &DraftEmail{
		queue: queue,
		log:   log,
	}
}

// DraftEmail writes the outbound message into the approval queue instead of
// sending it. The returned path is where a human finds the artifact.
type DraftEmail struct {
	queue draftQueue
	log   *slog.Logger
}

// Call implements the tool handler contract.
func (t *DraftEmail) Call(_ context.Context, args json.RawMessage) (any, error) {
	var req DraftEmailRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	t.log.Info("creating email draft", "to", req.To, "subject", req.Subject)

	draft, err := t.queue.CreateDraft(req.To, req.Subject, req.Body, req.Context)
	if err != nil {
		t.log.Error("draft creation failed", "to", req.To, "error", err)

		return DraftEmailResponse{Success: false, Error: err.Error()}, nil
	}

	t.log.Info("draft created", "path", draft.Path)

	return DraftEmailResponse{
		Success:          true,
		DraftPath:        draft.Path,
		RequiresApproval: true,
	}, nil
}
