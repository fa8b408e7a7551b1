package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/handler/chat"
	"github.com/gcet-assistant/backend/internal/handler/profile"
	"github.com/gcet-assistant/backend/internal/handler/stream"
	"github.com/gcet-assistant/backend/internal/handler/voice"
	middlewarePkg "github.com/gcet-assistant/backend/internal/middleware"
	profileModel "github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/service/assistant"
	speechService "github.com/gcet-assistant/backend/internal/service/speech"
	"github.com/gcet-assistant/backend/pkg/utils"
)

// Options configures NewRouter.
type Options struct {
	CORSOrigins    []string
	SpeechLanguage string
	ProfileOptions profileModel.Options
}

// NewRouter wires HTTP routes to the assistant session.
func NewRouter(a *assistant.Assistant, speechSvc *speechService.Service, opts Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(opts.CORSOrigins))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status":  "ok",
				"session": a.Session().ID,
				"speech":  speechSvc.Enabled(),
			})
		})

		chat.New(a, logger).RegisterRoutes(api)
		profile.New(a, opts.ProfileOptions, logger).RegisterRoutes(api)
		stream.New(a, opts.CORSOrigins, logger).RegisterRoutes(api)
		voice.New(speechSvc, a, opts.SpeechLanguage, logger).RegisterRoutes(api)
	})

	return r
}
