package tool_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/aiemployee/email-mcp/internal/tool"
)

func newGetEmailGmailSvc() *gmailSvcMock {
	return &gmailSvcMock{
		GetMessageFunc: func(_ context.Context, msgID string) (*gmail.Message, error) {
			if msgID == "error-msg" {
				return nil, fmt.Errorf("message not found: %s", msgID)
			}
			return &gmail.Message{
				Id:       msgID,
				ThreadId: "t-" + msgID,
				Snippet:  "test snippet " + msgID,
				Payload: &gmail.MessagePart{
					Headers: []*gmail.MessagePartHeader{
						{Name: "From", Value: "Sender <sender@example.com>"},
						{Name: "To", Value: "Receiver <receiver@example.com>"},
						{Name: "Subject", Value: "Test subject " + msgID},
						{Name: "Date", Value: "2025-01-01 10:00:00"},
					},
				},
			}, nil
		},
	}
}

func TestGetEmail(t *testing.T) {
	gt := tool.NewGetEmail(newGetEmailGmailSvc(), testLogger())

	result, err := gt.Call(context.Background(), json.RawMessage(`{"messageId":"m-001"}`))
	require.NoError(t, err)

	resp, ok := result.(tool.GetEmailResponse)
	require.True(t, ok)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Email)
	assert.Equal(t, &tool.EmailDetail{
		ID:       "m-001",
		ThreadID: "t-m-001",
		From:     "Sender <sender@example.com>",
		To:       "Receiver <receiver@example.com>",
		Subject:  "Test subject m-001",
		Date:     "2025-01-01 10:00:00",
		Snippet:  "test snippet m-001",
	}, resp.Email)
}

func TestGetEmailFailure(t *testing.T) {
	gt := tool.NewGetEmail(newGetEmailGmailSvc(), testLogger())

	result, err := gt.Call(context.Background(), json.RawMessage(`{"messageId":"error-msg"}`))
	require.NoError(t, err)

	resp, ok := result.(tool.GetEmailResponse)
	require.True(t, ok)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "message not found")
	assert.Nil(t, resp.Email)
}
