package controllers

import (
	"net/http"

	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/util"
)

type StatusController struct {
	AuthController
	Status *engine.StatusService
}

func NewStatusController(status *engine.StatusService, auth AuthController) *StatusController {
	return &StatusController{Status: status, AuthController: auth}
}

func (c *StatusController) handleWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	resp, err := c.Status.WorkflowStatus(r.Context(), q.Get("workflowId"), q.Get("type"))
	if err != nil {
		writeError(w, r, err, "Failed to get workflow status")
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, resp)
}
