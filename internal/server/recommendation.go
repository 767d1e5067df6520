package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"

	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/profile"
)

// StageHeader carries the sanitizer stage of a recommendation response.
const StageHeader = "X-Recommendation-Stage"

type RecommendationHandler struct {
	recommender pipeline.Recommender
	strict      bool
	filter      bool
	interval    time.Duration
	clock       clock.Clock
	log         *logger.Logger
}

type recommendationRequest struct {
	ProfileID string `json:"profileId"`
	// UserID is the field name older clients send.
	UserID string `json:"userId"`
}

func (r recommendationRequest) id() string {
	if id := strings.TrimSpace(r.ProfileID); id != "" {
		return id
	}
	return strings.TrimSpace(r.UserID)
}

// Recommend handles POST /api/recommendation.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	if h.recommender == nil {
		RespondError(c, http.StatusInternalServerError, "generator_unavailable", pipeline.ErrNoGenerator)
		return
	}

	var req recommendationRequest
	// an empty or malformed body is reported as a missing id below
	_ = c.ShouldBindJSON(&req)

	rec, err := h.recommender.Recommend(c.Request.Context(), req.id())
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrMissingProfileID):
		RespondError(c, http.StatusBadRequest, "missing_profile_id", err)
		return
	case errors.Is(err, profile.ErrNotFound):
		RespondError(c, http.StatusNotFound, "profile_not_found", err)
		return
	case errors.Is(err, pipeline.ErrNoGenerator):
		RespondError(c, http.StatusInternalServerError, "generator_unavailable", err)
		return
	case errors.Is(err, context.Canceled):
		c.Status(http.StatusServiceUnavailable)
		return
	case pipeline.IsUpstream(err):
		if h.strict {
			c.Header(StageHeader, rec.Stage.String())
			RespondError(c, http.StatusBadGateway, "upstream_failed", err)
			return
		}
		// degraded content is still a successful answer
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	c.Header(StageHeader, rec.Stage.String())
	RespondOK(c, rec)
}
