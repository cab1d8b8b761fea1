package controllers

import "net/http"

// RegisterRoutes wires the HTTP routes for this controller.
func (c *ApprovalsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/approve-content", c.RequireAuth(c.handleApproveContent))
	mux.HandleFunc("POST /api/approvals", c.RequireAuth(c.handleCreateApproval))
	mux.HandleFunc("GET /api/approvals/pending", c.RequireAuth(c.handleGetPendingApprovals))
	mux.HandleFunc("GET /api/approvals/{id}", c.RequireAuth(c.handleGetApproval))
}
func (c *StatusController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/workflow-status", c.RequireAuth(c.handleWorkflowStatus))
}
func (c *TriggerController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/trigger-workflow", c.RequireAuth(c.handleTriggerWorkflow))
}
func (c *ContentController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/articles", c.RequireAuth(c.handleGetArticles))
	mux.HandleFunc("GET /api/newsletters", c.RequireAuth(c.handleGetNewsletters))
	mux.HandleFunc("GET /api/workflow-logs", c.RequireAuth(c.handleGetWorkflowLogs))
}
func (c *StreamController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stream/approvals", c.RequireAuth(c.handleApprovalStream))
}
func (c *HealthController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", c.handleHealth)
}

// WithCORS lets browser dashboards on any origin call the API. Preflight requests are answered here.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
