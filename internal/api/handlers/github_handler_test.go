package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hookrelay/internal/engine/discord"
	"hookrelay/internal/engine/github"
	"hookrelay/internal/platform/config"
)

const testSecret = "hook-secret"

type downstream struct {
	srv    *httptest.Server
	bodies []string
}

func newDownstream(status int) *downstream {
	d := &downstream{}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		d.bodies = append(d.bodies, buf.String())
		w.WriteHeader(status)
	}))
	return d
}

func newTestHandler(webhookURL string, gh config.GitHubConfig) *GitHubHandler {
	normalizer := github.NewNormalizer("Warden")
	normalizer.Now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return NewGitHubHandler(
		gh,
		config.DiscordConfig{WebhookURL: webhookURL, Username: "Warden"},
		normalizer,
		discord.NewForwarder(time.Second, 0),
		nil,
	)
}

func deliver(h *GitHubHandler, eventType, body string, sign bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", strings.NewReader(body))
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "d-1")
	if sign {
		req.Header.Set("X-Hub-Signature-256", github.Sign(testSecret, []byte(body)))
	}
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func TestHandlePush(t *testing.T) {
	down := newDownstream(http.StatusNoContent)
	defer down.srv.Close()
	h := newTestHandler(down.srv.URL, config.GitHubConfig{Secret: testSecret, RequireSignature: true})

	body := `{
		"ref": "refs/heads/main",
		"pusher": {"name": "octocat"},
		"repository": {"full_name": "acme/site"},
		"commits": [
			{"id": "aaaaaaaaaaaaaaaaaaaa", "message": "first", "url": "https://github.com/acme/site/commit/a"},
			{"id": "bbbbbbbbbbbbbbbbbbbb", "message": "second", "url": "https://github.com/acme/site/commit/b"}
		]
	}`

	w := deliver(h, "push", body, true)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(down.bodies) != 1 {
		t.Fatalf("downstream posts = %d, want 1", len(down.bodies))
	}

	var msg discord.Message
	if err := json.Unmarshal([]byte(down.bodies[0]), &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.Embeds) != 1 {
		t.Fatalf("embeds = %d", len(msg.Embeds))
	}
	if msg.Embeds[0].Title != "🚀 2 new commits to main" {
		t.Errorf("title = %q", msg.Embeds[0].Title)
	}
	if len(msg.Embeds[0].Fields) != 2 {
		t.Errorf("fields = %d, want 2", len(msg.Embeds[0].Fields))
	}
}

func TestHandleMergedPullRequest(t *testing.T) {
	down := newDownstream(http.StatusNoContent)
	defer down.srv.Close()
	h := newTestHandler(down.srv.URL, config.GitHubConfig{Secret: testSecret, RequireSignature: true})

	body := `{
		"action": "closed",
		"pull_request": {"number": 42, "title": "Fix relay", "merged": true, "html_url": "https://github.com/acme/site/pull/42", "user": {"login": "octocat"}},
		"repository": {"full_name": "acme/site"}
	}`

	w := deliver(h, "pull_request", body, true)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var msg discord.Message
	json.Unmarshal([]byte(down.bodies[0]), &msg)
	title := msg.Embeds[0].Title
	if !strings.Contains(title, "#42") || !strings.Contains(title, "Merged") {
		t.Errorf("title = %q", title)
	}
}

func TestHandleIgnoredAction(t *testing.T) {
	down := newDownstream(http.StatusNoContent)
	defer down.srv.Close()
	h := newTestHandler(down.srv.URL, config.GitHubConfig{Secret: testSecret, RequireSignature: true})

	body := `{"action": "labeled", "pull_request": {"number": 1}}`
	w := deliver(h, "pull_request", body, true)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want ignored events answered with 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ignored") {
		t.Errorf("body = %s", w.Body.String())
	}
	if len(down.bodies) != 0 {
		t.Errorf("downstream posts = %d, want none", len(down.bodies))
	}
}

func TestHandleInvalidSignature(t *testing.T) {
	down := newDownstream(http.StatusNoContent)
	defer down.srv.Close()
	h := newTestHandler(down.srv.URL, config.GitHubConfig{Secret: testSecret, RequireSignature: true})

	body := `{"zen": "ok"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", strings.NewReader(body))
	req.Header.Set("X-GitHub-Event", "ping")
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	w := httptest.NewRecorder()
	h.Handle(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if len(down.bodies) != 0 {
		t.Errorf("downstream posts = %d, want none", len(down.bodies))
	}
}

func TestHandleMissingSignature(t *testing.T) {
	t.Run("strict mode rejects", func(t *testing.T) {
		h := newTestHandler("", config.GitHubConfig{Secret: testSecret, RequireSignature: true})
		w := deliver(h, "ping", `{}`, false)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("lenient mode accepts", func(t *testing.T) {
		down := newDownstream(http.StatusNoContent)
		defer down.srv.Close()
		h := newTestHandler(down.srv.URL, config.GitHubConfig{Secret: testSecret, RequireSignature: false})
		w := deliver(h, "ping", `{"zen": "ok", "repository": {"full_name": "acme/site"}}`, false)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if len(down.bodies) != 1 {
			t.Errorf("downstream posts = %d, want 1", len(down.bodies))
		}
	})
}

func TestHandleMissingEventHeader(t *testing.T) {
	h := newTestHandler("", config.GitHubConfig{})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Handle(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleMalformedBody(t *testing.T) {
	h := newTestHandler("", config.GitHubConfig{})
	w := deliver(h, "push", `{not json`, false)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleDownstreamFailure(t *testing.T) {
	down := newDownstream(http.StatusBadRequest)
	defer down.srv.Close()
	h := newTestHandler(down.srv.URL, config.GitHubConfig{})

	w := deliver(h, "ping", `{"zen": "ok"}`, false)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	// Internal topology must not leak to the sender.
	if strings.Contains(w.Body.String(), down.srv.URL) {
		t.Errorf("response leaks downstream URL: %s", w.Body.String())
	}
}

func TestHandleDownstreamNotConfigured(t *testing.T) {
	h := newTestHandler("", config.GitHubConfig{})
	w := deliver(h, "ping", `{"zen": "ok"}`, false)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "NOT_CONFIGURED") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUsage(t *testing.T) {
	h := newTestHandler("", config.GitHubConfig{})
	req := httptest.NewRequest(http.MethodGet, "/webhooks/github", nil)
	w := httptest.NewRecorder()
	h.Usage(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "webhook") {
		t.Errorf("body = %s", w.Body.String())
	}
}
