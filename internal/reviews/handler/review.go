package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"courtfinder/internal/reviews/repository"
	"courtfinder/internal/reviews/service"
	apperrors "courtfinder/pkg/errors"
	httputil "courtfinder/pkg/http"
	"courtfinder/pkg/logger"
	"courtfinder/pkg/middleware"
	"courtfinder/pkg/model"
)

type ReviewHandler struct {
	service service.ReviewService
	log     *logger.Logger
}

func NewReviewHandler(service service.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log,
	}
}

// userID extracts the caller identity set by the gateway. An empty value
// means an anonymous request.
func userID(r *http.Request) string {
	return r.Header.Get(middleware.UserIDHeader)
}

func requireUserID(r *http.Request) (string, error) {
	id := userID(r)
	if id == "" {
		return "", apperrors.InvalidInput(fmt.Sprintf("%s header is required", middleware.UserIDHeader))
	}
	return id, nil
}

func (h *ReviewHandler) Rating(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	courtID := r.URL.Query().Get("court_id")
	if courtID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "court_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Rating", "error", err)
		}
		return
	}

	summary, err := h.service.Rating(r.Context(), courtID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Rating", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, summary); err != nil {
		h.log.Error("failed to write success response", "handler", "Rating", "error", err)
	}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	courtID := query.Get("court_id")
	if courtID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "court_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "List", "error", err)
		}
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	sort := repository.ReviewSort(query.Get("sort"))

	pageResult, err := h.service.List(r.Context(), courtID, userID(r), page, perPage, sort)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, pageResult); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, err := requireUserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	// The header identity always wins over whatever the body claims.
	review.UserID = uid

	if err := h.service.Create(r.Context(), &review); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := requireUserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	id := ps.ByName("id")

	var updates model.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	review, err := h.service.Update(r.Context(), id, uid, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, review); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, err := requireUserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	courtID := r.URL.Query().Get("court_id")
	if courtID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "court_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Delete", "error", err)
		}
		return
	}

	if err := h.service.Delete(r.Context(), courtID, uid); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/review/rating", h.Rating)
	router.GET("/api/review", h.List)
	router.POST("/api/review", h.Create)
	router.PATCH("/api/review/:id", h.Update)
	router.DELETE("/api/review", h.Delete)
}
