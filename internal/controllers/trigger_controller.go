package controllers

import (
	"errors"
	"net/http"

	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/util"
)

type TriggerController struct {
	AuthController
	Trigger *engine.TriggerService
}

func NewTriggerController(trigger *engine.TriggerService, auth AuthController) *TriggerController {
	return &TriggerController{Trigger: trigger, AuthController: auth}
}

func (c *TriggerController) handleTriggerWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, err := decodeBody[models.TriggerWorkflowRequest](w, r)
	if err != nil {
		writeError(w, r, err, "Failed to trigger workflow")
		return
	}
	resp, err := c.Trigger.TriggerWorkflow(r.Context(), req)
	if errors.Is(err, engine.ErrUnknownWorkflowType) {
		util.WriteErrorResponse(w, http.StatusBadRequest, "Invalid workflow type", req.WorkflowType)
		return
	}
	if err != nil {
		writeError(w, r, err, "Failed to trigger workflow")
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, resp)
}
