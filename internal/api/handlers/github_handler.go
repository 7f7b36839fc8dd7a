package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hookrelay/internal/engine/dedup"
	"hookrelay/internal/engine/discord"
	"hookrelay/internal/engine/github"
	"hookrelay/internal/platform/config"
	"hookrelay/internal/platform/models"
	"hookrelay/internal/pkg/errors"
)

const maxBodySize = 1 << 20 // GitHub caps hook payloads at 25MB but embeds use a fraction of that

// GitHubHandler runs the inbound pipeline for one delivery:
// verify -> classify -> normalize -> format -> forward.
type GitHubHandler struct {
	github     config.GitHubConfig
	discordCfg config.DiscordConfig
	normalizer *github.Normalizer
	forwarder  *discord.Forwarder
	dedup      *dedup.Store // nil when the delivery log is disabled
}

func NewGitHubHandler(gh config.GitHubConfig, dc config.DiscordConfig, normalizer *github.Normalizer, forwarder *discord.Forwarder, store *dedup.Store) *GitHubHandler {
	return &GitHubHandler{
		github:     gh,
		discordCfg: dc,
		normalizer: normalizer,
		forwarder:  forwarder,
		dedup:      store,
	}
}

// Usage answers GET probes with a plaintext hint instead of an error,
// so a browser visit to the hook URL is not mistaken for an outage.
func (h *GitHubHandler) Usage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "GitHub webhook endpoint. Configure your repository to POST JSON deliveries here.")
}

func (h *GitHubHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unreadable request body", nil)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing X-GitHub-Event header", nil)
		return
	}

	// Signature is computed over the raw received bytes.
	signature := r.Header.Get("X-Hub-Signature-256")
	if !github.Verify(body, signature, h.github.Secret, h.github.RequireSignature) {
		log.Warn().Str("event", eventType).Msg("rejected delivery with invalid signature")
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid signature", nil)
		return
	}

	if !json.Valid(body) {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Malformed JSON payload", nil)
		return
	}

	deliveryID := r.Header.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		deliveryID = uuid.New().String()
	}

	delivery := &models.Delivery{
		ID:         deliveryID,
		EventType:  eventType,
		ReceivedAt: time.Now().Unix(),
	}

	tmpl := github.Classify(eventType, body)
	delivery.Template = string(tmpl)

	if h.dedup != nil {
		fresh, err := h.dedup.Claim(delivery)
		if err != nil {
			// The delivery log is an optimization; a broken log must not
			// drop notifications.
			log.Error().Err(err).Str("delivery_id", deliveryID).Msg("delivery log unavailable")
		} else if !fresh {
			log.Info().Str("delivery_id", deliveryID).Msg("duplicate delivery ignored")
			writeStatus(w, http.StatusOK, "duplicate")
			return
		}
	}

	if tmpl == github.TemplateNone {
		log.Debug().Str("event", eventType).Msg("event carries no notification value")
		h.record(delivery, models.OutcomeIgnored, nil)
		writeStatus(w, http.StatusOK, "ignored")
		return
	}

	notification, err := h.normalizer.Normalize(tmpl, body)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Malformed JSON payload", nil)
		return
	}

	msg := discord.BuildMessage(notification, h.discordCfg.Username, h.discordCfg.AvatarURL)
	result := h.forwarder.Forward(r.Context(), msg, h.discordCfg.WebhookURL)
	h.record(delivery, "", &result)

	if !result.Succeeded {
		if result.ErrorDetail == discord.ErrNotConfigured {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeNotConfigured, "Notification channel not configured", nil)
			return
		}
		// Downstream status/body stays in the logs; the sender only
		// learns that delivery failed.
		log.Error().
			Str("delivery_id", deliveryID).
			Str("event", eventType).
			Str("detail", result.ErrorDetail).
			Msg("downstream delivery failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeDeliveryFailed, "Failed to deliver notification", nil)
		return
	}

	log.Info().
		Str("delivery_id", deliveryID).
		Str("event", eventType).
		Str("template", string(tmpl)).
		Int("status", result.StatusCode).
		Msg("notification delivered")
	writeStatus(w, http.StatusOK, "delivered")
}

func (h *GitHubHandler) record(d *models.Delivery, outcome string, result *models.ForwardResult) {
	if h.dedup == nil {
		return
	}
	if result != nil {
		if result.Succeeded {
			outcome = models.OutcomeDelivered
		} else {
			outcome = models.OutcomeFailed
			d.Error = result.ErrorDetail
		}
		d.StatusCode = result.StatusCode
	}
	d.Outcome = outcome
	if err := h.dedup.Record(d); err != nil {
		log.Error().Err(err).Str("delivery_id", d.ID).Msg("failed to record delivery outcome")
	}
}

func writeStatus(w http.ResponseWriter, status int, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": state})
}
