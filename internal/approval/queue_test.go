package approval_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aiemployee/email-mcp/internal/approval"
)

func newTestQueue(t *testing.T) *approval.Queue {
	t.Helper()

	q := approval.NewQueue(t.TempDir())
	require.NoError(t, q.EnsureDirs())

	return q
}

func TestCreateDraft(t *testing.T) {
	q := newTestQueue(t)

	draft, err := q.CreateDraft("a@b.com", "Hi", "Hello there", "follow-up requested")
	require.NoError(t, err)
	require.NotNil(t, draft)

	assert.True(t, strings.HasPrefix(draft.Path, q.PendingDir()))
	assert.Contains(t, filepath.Base(draft.Path), "EMAIL_DRAFT_")
	assert.Contains(t, filepath.Base(draft.Path), "a_b_com")

	content, err := os.ReadFile(draft.Path)
	require.NoError(t, err)

	// Frontmatter must round-trip as machine-readable metadata.
	parts := strings.SplitN(string(content), "---\n", 3)
	require.Len(t, parts, 3)

	var meta approval.Metadata
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))
	assert.Equal(t, "email_draft", meta.Type)
	assert.Equal(t, "a@b.com", meta.To)
	assert.Equal(t, "Hi", meta.Subject)
	assert.Equal(t, approval.StatusPendingApproval, meta.Status)
	assert.Equal(t, "follow-up requested", meta.Context)
	assert.True(t, meta.Created.Equal(draft.Created), "created timestamp must round-trip")

	body := parts[2]
	assert.Contains(t, body, "Hello there")
	assert.Contains(t, body, "**To:** a@b.com")
	assert.Contains(t, body, "**Subject:** Hi")
	assert.Contains(t, body, "## To Approve")
	assert.Contains(t, body, "## To Reject")
	assert.Contains(t, body, "## To Edit")
}

func TestCreateDraftNeverDeduplicates(t *testing.T) {
	q := newTestQueue(t)

	first, err := q.CreateDraft("a@b.com", "Hi", "Hello", "")
	require.NoError(t, err)
	second, err := q.CreateDraft("a@b.com", "Hi", "Hello", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := os.ReadDir(q.PendingDir())
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files may remain after publishing")
}

func TestCreateDraftMissingDir(t *testing.T) {
	q := approval.NewQueue(filepath.Join(t.TempDir(), "never-created"))

	draft, err := q.CreateDraft("a@b.com", "Hi", "Hello", "")
	require.Error(t, err)
	assert.Nil(t, draft)
}

func TestEnsureDirs(t *testing.T) {
	vault := t.TempDir()
	q := approval.NewQueue(vault)
	require.NoError(t, q.EnsureDirs())

	for _, dir := range []string{"Pending_Approval", "Approved", "Rejected"} {
		info, err := os.Stat(filepath.Join(vault, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
