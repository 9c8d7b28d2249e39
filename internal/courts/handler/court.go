package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"courtfinder/internal/courts/service"
	apperrors "courtfinder/pkg/errors"
	httputil "courtfinder/pkg/http"
	"courtfinder/pkg/logger"
	"courtfinder/pkg/model"
)

type CourtHandler struct {
	service service.CourtService
	log     *logger.Logger
}

func NewCourtHandler(service service.CourtService, log *logger.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log,
	}
}

func (h *CourtHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	courtID := r.URL.Query().Get("court_id")
	if courtID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "court_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Get", "error", err)
		}
		return
	}

	court, err := h.service.Get(r.Context(), courtID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, court); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *CourtHandler) Around(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Around", "error", writeErr)
		}
		return
	}

	radiusKm := 0
	if radiusStr := r.URL.Query().Get("radius_km"); radiusStr != "" {
		radiusKm, err = strconv.Atoi(radiusStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid radius_km parameter: %s", radiusStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Around", "error", writeErr)
			}
			return
		}
	}

	courts, err := h.service.Around(r.Context(), lat, lon, radiusKm)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Around", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, courts); err != nil {
		h.log.Error("failed to write success response", "handler", "Around", "error", err)
	}
}

func (h *CourtHandler) Nearby(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Nearby", "error", writeErr)
		}
		return
	}

	courts, err := h.service.Nearby(r.Context(), lat, lon)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Nearby", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, courts); err != nil {
		h.log.Error("failed to write success response", "handler", "Nearby", "error", err)
	}
}

func (h *CourtHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	courtID := ps.ByName("id")
	if courtID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Update", "error", err)
		}
		return
	}

	var updates model.CourtUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	court, err := h.service.Update(r.Context(), courtID, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, court); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func parseCoordinates(r *http.Request) (float64, float64, error) {
	query := r.URL.Query()

	latStr := query.Get("lat")
	lonStr := query.Get("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, apperrors.InvalidInput("lat and lon parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid lat parameter: %s", latStr))
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid lon parameter: %s", lonStr))
	}

	return lat, lon, nil
}

func (h *CourtHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/courts", h.Get)
	router.GET("/api/courts/around", h.Around)
	router.GET("/api/courts/nearby", h.Nearby)
	router.PATCH("/api/courts/:id", h.Update)
}
