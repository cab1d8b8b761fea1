package controllers

import (
	"net/http"

	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/util"
)

type HealthResponse struct {
	Status    string         `json:"status"`
	Approvals map[string]int `json:"approvals,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type HealthController struct {
	Stats engine.ApprovalStats // optional
}

func NewHealthController(stats engine.ApprovalStats) *HealthController {
	return &HealthController{Stats: stats}
}

func (c *HealthController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if c.Stats == nil {
		util.WriteJSONResponse(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}
	counts, err := c.Stats.CountByStatus(r.Context())
	if err != nil {
		util.WriteJSONResponse(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Error: err.Error()})
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, HealthResponse{Status: "ok", Approvals: counts})
}
