package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"courtfinder/internal/reviews/service"
	httputil "courtfinder/pkg/http"
	"courtfinder/pkg/logger"
	"courtfinder/pkg/votes"
)

type VoteHandler struct {
	service service.VoteService
	log     *logger.Logger
}

func NewVoteHandler(service service.VoteService, log *logger.Logger) *VoteHandler {
	return &VoteHandler{
		service: service,
		log:     log,
	}
}

func (h *VoteHandler) Upvote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.cast(w, r, ps.ByName("id"), votes.ActionUp, "Upvote")
}

func (h *VoteHandler) Downvote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.cast(w, r, ps.ByName("id"), votes.ActionDown, "Downvote")
}

func (h *VoteHandler) cast(w http.ResponseWriter, r *http.Request, reviewID string, direction votes.Action, name string) {
	uid, err := requireUserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "error", writeErr)
		}
		return
	}

	view, err := h.service.Cast(r.Context(), reviewID, uid, direction)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", name, "error", err)
	}
}

func (h *VoteHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := requireUserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "error", writeErr)
		}
		return
	}

	view, err := h.service.Remove(r.Context(), ps.ByName("id"), uid)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Remove", "error", err)
	}
}

func (h *VoteHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/vote/:id/upvote", h.Upvote)
	router.POST("/api/vote/:id/downvote", h.Downvote)
	router.DELETE("/api/vote/:id", h.Remove)
}
