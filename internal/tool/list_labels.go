package tool

import (
	"context"
	"encoding/json"
	"log/slog"

	"google.golang.org/api/gmail/v1"
)

// ListLabelsResponse is the list_labels tool result.
type ListLabelsResponse struct {
	Success bool    `json:"success"`
	Labels  []Label `json:"labels,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Label is one Gmail label or folder.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type listLabelsSvc interface {
	ListLabels(ctx context.Context) (*gmail.ListLabelsResponse, error)
}

// NewListLabels creates the list_labels tool.
func NewListLabels(svc listLabelsSvc, log *slog.Logger) *ListLabels {
	return &ListLabels{
		svc: svc,
		log: log,
	}
}

// ListLabels returns the account's labels.
type ListLabels struct {
	svc listLabelsSvc
	log *slog.Logger
}

// Call implements the tool handler contract. list_labels takes no arguments.
func (t *ListLabels) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	result, err := t.svc.ListLabels(ctx)
	if err != nil {
		t.log.Error("label listing failed", "error", err)

		return ListLabelsResponse{Success: false, Error: err.Error()}, nil
	}

	labels := make([]Label, 0, len(result.Labels))
	for _, l := range result.Labels {
		labels = append(labels, Label{ID: l.Id, Name: l.Name, Type: l.Type})
	}

	return ListLabelsResponse{Success: true, Labels: labels}, nil
}
