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

func newSearchEmailsGmailSvc(byQuery map[string]*gmail.ListMessagesResponse, gotMax *int64) *gmailSvcMock {
	return &gmailSvcMock{
		ListMessagesFunc: func(_ context.Context, query string, maxResults int64) (*gmail.ListMessagesResponse, error) {
			if gotMax != nil {
				*gotMax = maxResults
			}
			res, ok := byQuery[query]
			if !ok {
				return nil, fmt.Errorf("simulated error: %s", query)
			}
			return res, nil
		},
	}
}

func TestSearchEmails(t *testing.T) {
	cases := []struct {
		name     string
		args     string
		expected tool.SearchEmailsResponse
	}{
		{
			name: "two matches",
			args: `{"query":"is:unread"}`,
			expected: tool.SearchEmailsResponse{
				Success: true,
				Count:   2,
				Messages: []tool.MessageRef{
					{ID: "m-001", ThreadID: "t-001"},
					{ID: "m-002", ThreadID: "t-002"},
				},
			},
		},
		{
			name: "no matches",
			args: `{"query":"from:nobody@test.com"}`,
			expected: tool.SearchEmailsResponse{
				Success:  true,
				Count:    0,
				Messages: []tool.MessageRef{},
			},
		},
		{
			name: "provider failure",
			args: `{"query":"broken"}`,
			expected: tool.SearchEmailsResponse{
				Success: false,
				Error:   "simulated error: broken",
			},
		},
	}

	gmailSvc := newSearchEmailsGmailSvc(map[string]*gmail.ListMessagesResponse{
		"is:unread": {
			Messages: []*gmail.Message{
				{Id: "m-001", ThreadId: "t-001"},
				{Id: "m-002", ThreadId: "t-002"},
			},
		},
		"from:nobody@test.com": {},
	}, nil)

	st := tool.NewSearchEmails(gmailSvc, testLogger())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := st.Call(context.Background(), json.RawMessage(tc.args))
			require.NoError(t, err)

			resp, ok := result.(tool.SearchEmailsResponse)
			require.True(t, ok)
			assert.Equal(t, tc.expected, resp)
		})
	}
}

func TestSearchEmailsMaxResultsDefaults(t *testing.T) {
	cases := []struct {
		name     string
		args     string
		expected int64
	}{
		{name: "defaults to 10", args: `{"query":"is:unread"}`, expected: 10},
		{name: "capped at 50", args: `{"query":"is:unread","maxResults":500}`, expected: 50},
		{name: "passed through", args: `{"query":"is:unread","maxResults":25}`, expected: 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotMax int64
			gmailSvc := newSearchEmailsGmailSvc(map[string]*gmail.ListMessagesResponse{"is:unread": {}}, &gotMax)

			_, err := tool.NewSearchEmails(gmailSvc, testLogger()).Call(context.Background(), json.RawMessage(tc.args))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, gotMax)
		})
	}
}
