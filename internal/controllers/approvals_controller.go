package controllers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/util"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"

	"github.com/google/uuid"
)

// ApprovalsController holds dependencies for the approval endpoints.
type ApprovalsController struct {
	AuthController
	Advancer     *engine.Advancer
	ApprovalRepo engine.ApprovalRepo
	Changes      engine.ApprovalChanges // optional
}

func NewApprovalsController(advancer *engine.Advancer, approvalRepo engine.ApprovalRepo,
	changes engine.ApprovalChanges, auth AuthController) *ApprovalsController {
	return &ApprovalsController{Advancer: advancer, ApprovalRepo: approvalRepo, Changes: changes, AuthController: auth}
}

func (c *ApprovalsController) handleApproveContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, err := decodeBody[models.DecisionRequest](w, r)
	if err != nil {
		writeError(w, r, err, "Failed to process approval")
		return
	}
	userID := req.UserID
	if principal, ok := core.PrincipalFromContext(r.Context()); ok {
		userID = principal
	}

	// the stage notification must not be abandoned when the dashboard goes away mid-request
	ctx := context.WithoutCancel(r.Context())
	result, err := c.Advancer.Advance(ctx, engine.Decision{
		ItemID:       req.ItemID,
		ApprovalType: domain.ApprovalType(req.ApprovalType),
		Approved:     req.Approved,
		Feedback:     req.Feedback,
		UserID:       userID,
	})
	if err != nil {
		writeError(w, r, err, "Failed to process approval")
		return
	}
	if c.Changes != nil {
		c.Changes.Wakeup()
	}
	util.WriteJSONResponse(w, http.StatusOK, models.AdvanceResponse{
		Success:  true,
		Approval: result.Approval,
		NextStep: result.NextStep,
	})
}

func validateCreateApproval(req models.CreateApprovalRequest) error {
	var missing []string
	if strings.TrimSpace(req.ApprovalType) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(req.ItemID) == "" {
		missing = append(missing, "itemId")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

func (c *ApprovalsController) handleCreateApproval(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[models.CreateApprovalRequest](w, r)
	if err == nil {
		err = validateCreateApproval(req)
	}
	if err != nil {
		writeError(w, r, err, "Failed to create approval")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.RequestingUserID == "" {
		if principal, ok := core.PrincipalFromContext(r.Context()); ok {
			req.RequestingUserID = principal
		}
	}

	existing, err := c.ApprovalRepo.FindByID(r.Context(), req.ID)
	if err != nil {
		writeError(w, r, err, "Failed to create approval")
		return
	}
	if existing != nil {
		slog.WarnContext(r.Context(), "Approval already exists", "id", req.ID)
		writeError(w, r, &models.ConflictError{ApprovalID: req.ID, Status: string(existing.Status)}, "Failed to create approval")
		return
	}

	a := &domain.Approval{
		ID:               req.ID,
		ApprovalType:     domain.ApprovalType(req.ApprovalType),
		ItemID:           req.ItemID,
		WorkflowID:       req.WorkflowID,
		Title:            req.Title,
		Description:      req.Description,
		Status:           domain.ApprovalStatusPending,
		RequestingUserID: req.RequestingUserID,
	}
	if len(req.Data) > 0 {
		a.Data = sql.NullString{String: string(req.Data), Valid: true}
	}
	if err := c.ApprovalRepo.Save(r.Context(), a); err != nil {
		writeError(w, r, err, "Failed to create approval")
		return
	}
	slog.InfoContext(r.Context(), "Approval requested", "id", a.ID, "type", a.ApprovalType, "itemId", a.ItemID)
	if c.Changes != nil {
		c.Changes.Wakeup()
	}
	util.WriteJSONResponse(w, http.StatusCreated, models.ToApprovalApi(*a))
}

func (c *ApprovalsController) handleGetPendingApprovals(w http.ResponseWriter, r *http.Request) {
	rows, err := c.ApprovalRepo.FindPending(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err, "Failed to load pending approvals")
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.ToApprovalApiList(rows))
}

func (c *ApprovalsController) handleGetApproval(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := c.ApprovalRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to load approval")
		return
	}
	if a == nil {
		util.WriteErrorResponse(w, http.StatusNotFound, "Approval not found", id)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.ToApprovalApi(*a))
}
