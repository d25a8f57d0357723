package tool_test

import (
	"context"
	"io"
	"log/slog"

	"google.golang.org/api/gmail/v1"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type gmailSvcMock struct {
	SendFunc         func(ctx context.Context, raw string) (*gmail.Message, error)
	ListMessagesFunc func(ctx context.Context, query string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessageFunc   func(ctx context.Context, msgID string) (*gmail.Message, error)
	ListLabelsFunc   func(ctx context.Context) (*gmail.ListLabelsResponse, error)
}

func (m *gmailSvcMock) Send(ctx context.Context, raw string) (*gmail.Message, error) {
	if m.SendFunc == nil {
		panic("unexpected Send call")
	}
	return m.SendFunc(ctx, raw)
}

func (m *gmailSvcMock) ListMessages(ctx context.Context, query string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	if m.ListMessagesFunc == nil {
		panic("unexpected ListMessages call")
	}
	return m.ListMessagesFunc(ctx, query, maxResults)
}

func (m *gmailSvcMock) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	if m.GetMessageFunc == nil {
		panic("unexpected GetMessage call")
	}
	return m.GetMessageFunc(ctx, msgID)
}

func (m *gmailSvcMock) ListLabels(ctx context.Context) (*gmail.ListLabelsResponse, error) {
	if m.ListLabelsFunc == nil {
		panic("unexpected ListLabels call")
	}
	return m.ListLabelsFunc(ctx)
}
