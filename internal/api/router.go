package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"hookrelay/internal/api/handlers"
	"hookrelay/internal/pkg/errors"
)

type Dependencies struct {
	GitHubHandler     *handlers.GitHubHandler
	HealthHandler     *handlers.HealthHandler
	DeliveriesHandler *handlers.DeliveriesHandler
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Inbound webhook pipeline. GET answers with a usage hint so probing
	// the URL in a browser does not look like a failure.
	router.GET("/webhooks/github", wrap(deps.GitHubHandler.Usage))
	router.POST("/webhooks/github", wrap(deps.GitHubHandler.Handle))

	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/api/v1/deliveries", wrap(deps.DeliveriesHandler.List))

	// Nothing may propagate past the request boundary.
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("unhandled panic in request handler")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error", nil)
	}

	return router
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}
