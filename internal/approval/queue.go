// Package approval writes outbound-email drafts into a filesystem approval
// queue. A draft becomes a single markdown file under the vault's
// Pending_Approval directory; a human approves or rejects it by moving the
// file into the sibling Approved or Rejected directory. This package only
// ever writes to the pending directory and never reads a decision back.
package approval

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// StatusPendingApproval is the status embedded in every new draft artifact.
const StatusPendingApproval = "pending_approval"

const (
	pendingDirName  = "Pending_Approval"
	approvedDirName = "Approved"
	rejectedDirName = "Rejected"
)

// Draft is the durable pending-approval artifact for one outbound email.
type Draft struct {
	ID      string
	Path    string
	Created time.Time
}

// Metadata is the machine-readable frontmatter embedded in a draft file.
type Metadata struct {
	Type    string    `yaml:"type"`
	To      string    `yaml:"to"`
	Subject string    `yaml:"subject"`
	Created time.Time `yaml:"created"`
	Status  string    `yaml:"status"`
	Context string    `yaml:"context,omitempty"`
}

// Queue writes draft artifacts into the vault's pending directory.
type Queue struct {
	pendingDir string
}

// NewQueue creates a Queue rooted at the given vault directory.
func NewQueue(vaultDir string) *Queue {
	return &Queue{
		pendingDir: filepath.Join(vaultDir, pendingDirName),
	}
}

// PendingDir returns the directory new drafts are written to.
func (q *Queue) PendingDir() string {
	return q.pendingDir
}

// EnsureDirs creates the pending directory and its approval siblings.
func (q *Queue) EnsureDirs() error {
	base := filepath.Dir(q.pendingDir)
	for _, dir := range []string{q.pendingDir, filepath.Join(base, approvedDirName), filepath.Join(base, rejectedDirName)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("os.MkdirAll(%s) failed: %w", dir, err)
		}
	}

	return nil
}

// CreateDraft writes a new pending-approval artifact and returns its
// identity. The write is temp-file-and-rename so a concurrent directory scan
// never observes a half-written draft.
func (q *Queue) CreateDraft(to, subject, body, context string) (*Draft, error) {
	created := time.Now().UTC()
	id := ulid.Make().String()

	doc, err := renderDraft(Metadata{
		Type:    "email_draft",
		To:      to,
		Subject: subject,
		Created: created,
		Status:  StatusPendingApproval,
		Context: context,
	}, body)
	if err != nil {
		return nil, fmt.Errorf("renderDraft failed: %w", err)
	}

	path := filepath.Join(q.pendingDir, fmt.Sprintf("EMAIL_DRAFT_%s_%s.md", id, sanitizeToken(to)))

	tmp, err := os.CreateTemp(q.pendingDir, ".draft-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("os.CreateTemp failed: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			slog.Warn("leftover draft temp file", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write([]byte(doc)); err != nil {
		_ = tmp.Close()

		return nil, fmt.Errorf("tmp.Write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("tmp.Close failed: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("os.Rename failed: %w", err)
	}

	return &Draft{ID: id, Path: path, Created: created}, nil
}

func renderDraft(meta Metadata, body string) (string, error) {
	front, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("yaml.Marshal failed: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	b.WriteString("## Email Draft\n\n")
	fmt.Fprintf(&b, "**To:** %s\n", meta.To)
	fmt.Fprintf(&b, "**Subject:** %s\n\n", meta.Subject)
	b.WriteString("### Message Body\n\n")
	b.WriteString(body)
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "## To Approve\nMove this file to the `%s` folder to send this email.\n\n", approvedDirName)
	fmt.Fprintf(&b, "## To Reject\nMove this file to the `%s` folder to cancel.\n\n", rejectedDirName)
	fmt.Fprintf(&b, "## To Edit\nModify the message body above, then move to `%s`.\n", approvedDirName)

	return b.String(), nil
}

// sanitizeToken keeps draft filenames filesystem-safe.
func sanitizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
