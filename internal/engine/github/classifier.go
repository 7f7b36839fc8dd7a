package github

import "encoding/json"

// Template identifies the normalization rule set for a delivery.
type Template string

const (
	TemplateNone     Template = ""
	TemplatePush     Template = "push"
	TemplatePROpened Template = "pr_opened"
	TemplatePRMerged Template = "pr_merged"
	TemplatePRClosed Template = "pr_closed"
	TemplateRelease  Template = "release"
	TemplatePing     Template = "ping"
)

// Classify decides whether a delivery is notification-worthy and which
// template applies. It is pure and total: every (eventType, body) pair
// maps to exactly one template, with TemplateNone meaning ignore.
// Malformed bodies classify as ignore here; the handler rejects them
// earlier during payload parsing.
func Classify(eventType string, body []byte) Template {
	switch eventType {
	case "push":
		var p PushPayload
		if err := json.Unmarshal(body, &p); err != nil || len(p.Commits) == 0 {
			return TemplateNone
		}
		return TemplatePush

	case "pull_request":
		var p PullRequestPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return TemplateNone
		}
		switch p.Action {
		case "opened":
			return TemplatePROpened
		case "closed":
			if p.PullRequest.Merged {
				return TemplatePRMerged
			}
			return TemplatePRClosed
		default:
			return TemplateNone
		}

	case "release":
		var p ReleasePayload
		if err := json.Unmarshal(body, &p); err != nil || p.Action != "published" {
			return TemplateNone
		}
		return TemplateRelease

	case "ping":
		return TemplatePing

	default:
		return TemplateNone
	}
}
