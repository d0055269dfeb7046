package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	journalHandler "github.com/mpopa/stress-journal/backend/internal/handler/journal"
	"github.com/mpopa/stress-journal/backend/internal/handler/live"
	profileHandler "github.com/mpopa/stress-journal/backend/internal/handler/profile"
	"github.com/mpopa/stress-journal/backend/internal/handler/stream"
	middlewarePkg "github.com/mpopa/stress-journal/backend/internal/middleware"
	profileModel "github.com/mpopa/stress-journal/backend/internal/model/profile"
	companionService "github.com/mpopa/stress-journal/backend/internal/service/companion"
	historyService "github.com/mpopa/stress-journal/backend/internal/service/history"
	journalService "github.com/mpopa/stress-journal/backend/internal/service/journal"
	safetyService "github.com/mpopa/stress-journal/backend/internal/service/safety"
	"github.com/mpopa/stress-journal/backend/pkg/utils"
)

// Deps bundles the services the HTTP surface needs.
type Deps struct {
	Profiles  profileModel.Store
	Journal   *journalService.Service
	Companion *companionService.Service
	Safety    *safetyService.Service
	History   historyService.Store
	Tenant    string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	profiles := profileHandler.New(deps.Profiles)
	journals := journalHandler.New(deps.Journal, deps.Companion, deps.Safety, deps.Profiles, deps.History, deps.Tenant)
	streams := stream.New(deps.Companion)
	lives := live.New(deps.Journal, deps.Companion)

	r.Route("/api", func(api chi.Router) {
		profiles.RegisterRoutes(api)
		journals.RegisterRoutes(api)
		lives.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			entry := r.URL.Query().Get("entry")

			if entry == "" {
				utils.RespondError(w, http.StatusBadRequest, "entry query parameter is required")
				return
			}

			if err := streams.HandleStreamRequest(r.Context(), w, sessionID, entry); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
