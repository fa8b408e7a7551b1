// Package profile serves the saved user context and the form options.
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/pkg/utils"
)

// Profiles reads and replaces the user context.
type Profiles interface {
	Profile() profile.UserContext
	ResolvedProfile() profile.UserContext
	SaveProfile(ctx context.Context, uc profile.UserContext) (profile.UserContext, error)
}

type Handler struct {
	profiles Profiles
	options  profile.Options
	logger   *zap.Logger
}

func New(profiles Profiles, options profile.Options, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, options: options, logger: logger.Named("profile-handler")}
}

// RegisterRoutes mounts the profile routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGet)
	r.Put("/profile", h.handleSave)
	r.Get("/profile/options", h.handleOptions)
}

// profileResponse carries the saved context and the one content requests
// actually use after defaults are applied.
type profileResponse struct {
	Profile  profile.UserContext `json:"profile"`
	Resolved profile.UserContext `json:"resolved"`
}

func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, profileResponse{
		Profile:  h.profiles.Profile(),
		Resolved: h.profiles.ResolvedProfile(),
	})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var uc profile.UserContext
	if err := utils.DecodeJSON(w, r, &uc); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.profiles.SaveProfile(r.Context(), uc)
	switch {
	case errors.Is(err, profile.ErrInvalidProfile):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("save profile failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "could not save profile")
		return
	}

	utils.RespondJSON(w, http.StatusOK, profileResponse{
		Profile:  saved,
		Resolved: h.profiles.ResolvedProfile(),
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.options)
}
