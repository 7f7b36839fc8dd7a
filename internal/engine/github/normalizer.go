package github

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hookrelay/internal/platform/models"
)

const (
	// MaxCommitFields caps the per-push commit listing; the remainder is
	// summarized in the footer.
	MaxCommitFields = 5
	// CommitMessageLimit bounds each commit field value (first line only).
	CommitMessageLimit = 72
	// ReleaseNotesLimit bounds the release notes field.
	ReleaseNotesLimit = 500
)

// Normalizer turns classified GitHub payloads into the event-agnostic
// notification shape. The clock is a field so tests can pin timestamps.
type Normalizer struct {
	Product string
	Now     func() time.Time
}

func NewNormalizer(product string) *Normalizer {
	return &Normalizer{Product: product, Now: time.Now}
}

// Normalize builds a notification for a recognized template. It only
// fails on unparseable bodies; missing optional fields degrade to
// defaults.
func (n *Normalizer) Normalize(tmpl Template, body []byte) (*models.Notification, error) {
	switch tmpl {
	case TemplatePush:
		var p PushPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, err
		}
		return n.normalizePush(&p), nil
	case TemplatePROpened, TemplatePRMerged, TemplatePRClosed:
		var p PullRequestPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, err
		}
		return n.normalizePullRequest(tmpl, &p), nil
	case TemplateRelease:
		var p ReleasePayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, err
		}
		return n.normalizeRelease(&p), nil
	case TemplatePing:
		var p PingPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, err
		}
		return n.normalizePing(&p), nil
	default:
		return nil, fmt.Errorf("no normalization rule for template %q", tmpl)
	}
}

func (n *Normalizer) normalizePush(p *PushPayload) *models.Notification {
	branch := strings.TrimPrefix(p.Ref, "refs/heads/")
	if branch == "" {
		branch = "main"
	}

	actor := p.Pusher.Name
	if actor == "" && len(p.Commits) > 0 {
		actor = p.Commits[0].Author.Name
	}
	if actor == "" {
		actor = "Unknown"
	}

	var fields []models.NotificationField
	for i, c := range p.Commits {
		if i == MaxCommitFields {
			break
		}
		sha := c.ID
		if len(sha) > 7 {
			sha = sha[:7]
		}
		fields = append(fields, models.NotificationField{
			Name:  fmt.Sprintf("[`%s`](%s)", sha, c.URL),
			Value: truncate(firstLine(c.Message), CommitMessageLimit),
		})
	}

	footer := n.footer(p.Repository)
	if extra := len(p.Commits) - MaxCommitFields; extra > 0 {
		footer = fmt.Sprintf("%s • ...and %d more commits", footer, extra)
	}

	return &models.Notification{
		Title:       fmt.Sprintf("🚀 %d new commits to %s", len(p.Commits), branch),
		Description: fmt.Sprintf("%s pushed to %s", actor, p.Repository.FullName),
		Color:       models.ColorPush,
		LinkURL:     p.Compare,
		Fields:      fields,
		Footer:      footer,
		Timestamp:   n.Now().UTC(),
	}
}

func (n *Normalizer) normalizePullRequest(tmpl Template, p *PullRequestPayload) *models.Notification {
	var word string
	var color models.ColorCategory
	switch tmpl {
	case TemplatePRMerged:
		word, color = "Merged", models.ColorPRMerged
	case TemplatePRClosed:
		word, color = "Closed", models.ColorPRClosed
	default:
		word, color = "New", models.ColorPROpened
	}

	pr := p.PullRequest
	return &models.Notification{
		Title:       fmt.Sprintf("🔀 %s PR #%d", word, pr.Number),
		Description: fmt.Sprintf("[%s](%s) by @%s", pr.Title, pr.HTMLURL, pr.User.Login),
		Color:       color,
		LinkURL:     pr.HTMLURL,
		Footer:      n.footer(p.Repository),
		Timestamp:   n.Now().UTC(),
	}
}

func (n *Normalizer) normalizeRelease(p *ReleasePayload) *models.Notification {
	rel := p.Release
	name := rel.Name
	if name == "" {
		name = rel.TagName
	}

	var fields []models.NotificationField
	if rel.Body != "" {
		fields = append(fields, models.NotificationField{
			Name:  "Release Notes",
			Value: truncate(rel.Body, ReleaseNotesLimit),
		})
	}

	return &models.Notification{
		Title:       fmt.Sprintf("📦 Release %s", rel.TagName),
		Description: fmt.Sprintf("[%s](%s) published by @%s", name, rel.HTMLURL, rel.Author.Login),
		Color:       models.ColorRelease,
		LinkURL:     rel.HTMLURL,
		Fields:      fields,
		Footer:      n.footer(p.Repository),
		Timestamp:   n.Now().UTC(),
	}
}

func (n *Normalizer) normalizePing(p *PingPayload) *models.Notification {
	desc := p.Repository.FullName
	if p.Zen != "" {
		desc = fmt.Sprintf("%s: \"%s\"", desc, p.Zen)
	}
	return &models.Notification{
		Title:       "✅ Webhook connection established",
		Description: desc,
		Color:       models.ColorPing,
		LinkURL:     p.Repository.HTMLURL,
		Footer:      n.footer(p.Repository),
		Timestamp:   n.Now().UTC(),
	}
}

func (n *Normalizer) footer(repo Repository) string {
	if repo.FullName == "" {
		return n.Product
	}
	return fmt.Sprintf("%s • %s", repo.FullName, n.Product)
}

// firstLine returns text up to the first newline.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// truncate bounds s at max bytes, marking cuts with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
