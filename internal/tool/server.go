package tool

import (
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
)

type gmailSvc interface {
	sendEmailSvc
	searchEmailsSvc
	getEmailSvc
	listLabelsSvc
}

// NewToolSet builds the registry with the full email tool catalog.
func NewToolSet(svc gmailSvc, queue draftQueue, dryRun bool, log *slog.Logger) (*Registry, error) {
	r := NewRegistry()

	catalog := []struct {
		desc    Descriptor
		handler Handler
	}{
		{
			desc: Descriptor{
				Name:        "send_email",
				Description: "Send an email via Gmail (requires prior approval)",
				InputSchema: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"to":      {Type: "string", Description: "Recipient email address"},
						"subject": {Type: "string", Description: "Email subject"},
						"body":    {Type: "string", Description: "Email body (HTML or plain text)"},
						"cc":      {Type: "string", Description: "CC recipients (optional)"},
						"bcc":     {Type: "string", Description: "BCC recipients (optional)"},
					},
					Required: []string{"to", "subject", "body"},
				},
			},
			handler: NewSendEmail(svc, dryRun, log).Call,
		},
		{
			desc: Descriptor{
				Name:        "draft_email",
				Description: "Create email draft for approval",
				InputSchema: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"to":      {Type: "string", Description: "Recipient email address"},
						"subject": {Type: "string", Description: "Email subject"},
						"body":    {Type: "string", Description: "Email body"},
						"context": {Type: "string", Description: "Why this email is needed"},
					},
					Required: []string{"to", "subject", "body"},
				},
			},
			handler: NewDraftEmail(queue, log).Call,
		},
		{
			desc: Descriptor{
				Name:        "search_emails",
				Description: "Search Gmail messages",
				InputSchema: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"query":      {Type: "string", Description: "Gmail search query"},
						"maxResults": {Type: "integer", Description: "Maximum results to return (default 10)"},
					},
					Required: []string{"query"},
				},
			},
			handler: NewSearchEmails(svc, log).Call,
		},
		{
			desc: Descriptor{
				Name:        "get_email",
				Description: "Get email details by ID",
				InputSchema: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"messageId": {Type: "string", Description: "Gmail message ID"},
					},
					Required: []string{"messageId"},
				},
			},
			handler: NewGetEmail(svc, log).Call,
		},
		{
			desc: Descriptor{
				Name:        "list_labels",
				Description: "List Gmail labels/folders",
				InputSchema: &jsonschema.Schema{
					Type: "object",
				},
			},
			handler: NewListLabels(svc, log).Call,
		},
	}

	for _, entry := range catalog {
		if err := r.Register(entry.desc, entry.handler); err != nil {
			return nil, fmt.Errorf("r.Register(%s) failed: %w", entry.desc.Name, err)
		}
	}

	return r, nil
}
