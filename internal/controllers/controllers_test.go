package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/n8n"
	"github.com/RealZimboGuy/newsflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineCall struct {
	Path string
	Auth string
	Body string
}

// fakeEngine stands in for the workflow engine, recording webhook calls and serving executions.
type fakeEngine struct {
	mu        sync.Mutex
	calls     []engineCall
	execution string // body for /api/v1/executions/{id}; 404 when empty
}

func (f *fakeEngine) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook/{stage}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, engineCall{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: string(body)})
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"workflowId":"exec-1"}`)
	})
	mux.HandleFunc("GET /api/v1/executions/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		execution := f.execution
		f.mu.Unlock()
		if execution == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, execution)
	})
	mux.HandleFunc("GET /api/v1/executions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":"7","finished":true,"startedAt":"2025-08-04T08:00:00Z","stoppedAt":"2025-08-04T08:05:00Z","workflowData":{"name":"Data Ingestion"}}]}`)
	})
	return mux
}

func (f *fakeEngine) SetExecution(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execution = body
}

func (f *fakeEngine) Calls() []engineCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engineCall(nil), f.calls...)
}

type testServer struct {
	api       *httptest.Server
	engine    *fakeEngine
	approvals *testutil.MockApprovalRepo
	changes   *recordingChanges
}

type recordingChanges struct {
	mu      sync.Mutex
	wakeups int
}

func (r *recordingChanges) Wakeup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wakeups++
}
func (r *recordingChanges) Wakeups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wakeups
}

func newTestServer(t *testing.T, approvals *testutil.MockApprovalRepo, auth AuthController) *testServer {
	t.Helper()
	fe := &fakeEngine{}
	upstream := httptest.NewServer(fe.handler())
	t.Cleanup(upstream.Close)

	client := n8n.NewClient(upstream.URL+"/webhook", upstream.URL+"/api/v1", "test-token", 5*time.Second)
	if approvals == nil {
		approvals = &testutil.MockApprovalRepo{}
	}
	changes := &recordingChanges{}
	advancer := engine.NewAdvancer(client, approvals, nil, nil)
	status := engine.NewStatusService(client, approvals, 10, nil)
	trigger := engine.NewTriggerService(client, nil, nil)

	mux := http.NewServeMux()
	NewApprovalsController(advancer, approvals, changes, auth).RegisterRoutes(mux)
	NewStatusController(status, auth).RegisterRoutes(mux)
	NewTriggerController(trigger, auth).RegisterRoutes(mux)
	NewHealthController(nil).RegisterRoutes(mux)
	api := httptest.NewServer(WithCORS(mux))
	t.Cleanup(api.Close)
	return &testServer{api: api, engine: fe, approvals: approvals, changes: changes}
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return out
}

func TestApproveContent_ApprovedStoriesContinues(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, body := post(t, ts.api.URL+"/api/approve-content",
		`{"approvalType":"stories","itemId":"stories-001","approved":true,"feedback":"looks good","userId":"u1"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, models.NextStepContinued, body["nextStep"])
	approval := body["approval"].(map[string]any)
	assert.Equal(t, "stories-001", approval["id"])
	assert.Equal(t, "stories", approval["type"])
	assert.Equal(t, true, approval["approved"])
	assert.Equal(t, "u1", approval["userId"])
	_, err := time.Parse(time.RFC3339, approval["timestamp"].(string))
	assert.NoError(t, err)

	calls := ts.engine.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/webhook/generate-subject-lines", calls[0].Path)
	assert.Equal(t, "Bearer test-token", calls[0].Auth)
	assert.JSONEq(t, `{"approvedItemId":"stories-001","feedback":"looks good","userId":"u1"}`, calls[0].Body)
	assert.Equal(t, 1, ts.changes.Wakeups())
}

func TestApproveContent_RejectedPausesWithoutCall(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, body := post(t, ts.api.URL+"/api/approve-content",
		`{"approvalType":"final-content","itemId":"nl-9","approved":false,"feedback":"tone is off","userId":"u1"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.NextStepPaused, body["nextStep"])
	assert.Empty(t, ts.engine.Calls())
}

func TestApproveContent_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, err := http.Get(ts.api.URL + "/api/approve-content")
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", body["error"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestApproveContent_BadInput(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, body := post(t, ts.api.URL+"/api/approve-content", `{"approvalType":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON payload", body["error"])

	resp, body = post(t, ts.api.URL+"/api/approve-content", `{"approvalType":"stories","approved":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["error"])
	assert.Contains(t, body["details"], "itemId")

	assert.Empty(t, ts.engine.Calls())
}

func TestApproveContent_AlreadyDecidedConflicts(t *testing.T) {
	repo := &testutil.MockApprovalRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Approval, error) {
			return &domain.Approval{ID: id, Status: domain.ApprovalStatusRejected}, nil
		},
	}
	ts := newTestServer(t, repo, AuthController{})

	resp, body := post(t, ts.api.URL+"/api/approve-content",
		`{"approvalType":"images","itemId":"img-1","approved":true,"userId":"u1"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Approval already decided", body["error"])
	assert.Empty(t, ts.engine.Calls())
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	req, _ := http.NewRequest(http.MethodOptions, ts.api.URL+"/api/approve-content", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestWorkflowStatus_RecentAndPending(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, err := http.Get(ts.api.URL + "/api/workflow-status")
	require.NoError(t, err)
	body := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	recent := body["workflow"].(map[string]any)["recent"].([]any)
	require.Len(t, recent, 1)
	assert.Equal(t, "completed", recent[0].(map[string]any)["status"])
	assert.NotEmpty(t, body["pendingApprovals"])
	_, err = time.Parse(time.RFC3339, body["lastUpdated"].(string))
	assert.NoError(t, err)
}

func TestWorkflowStatus_ByID(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})
	ts.engine.SetExecution(`{"id":"42","finished":false,"mode":"webhook"}`)

	resp, err := http.Get(ts.api.URL + "/api/workflow-status?workflowId=42")
	require.NoError(t, err)
	body := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"id": "42", "finished": false, "mode": "webhook"}, body["workflow"])
}

func TestWorkflowStatus_UpstreamMissing(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, err := http.Get(ts.api.URL + "/api/workflow-status?workflowId=unknown")
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to get workflow status", body["error"])
	assert.Contains(t, body["details"], "404")
}

func TestTriggerWorkflow(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})

	resp, body := post(t, ts.api.URL+"/api/trigger-workflow", `{"workflowType":"data-ingestion","config":{"full":true}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "exec-1", body["workflowId"])
	assert.Equal(t, "triggered", body["status"])
	calls := ts.engine.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/webhook/data-ingestion", calls[0].Path)

	resp, body = post(t, ts.api.URL+"/api/trigger-workflow", `{"workflowType":"drop-tables"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid workflow type", body["error"])
}

func TestApprovalsCrud(t *testing.T) {
	var mu sync.Mutex
	var saved *domain.Approval
	repo := &testutil.MockApprovalRepo{
		SaveFunc: func(ctx context.Context, a *domain.Approval) error {
			mu.Lock()
			defer mu.Unlock()
			saved = a
			return nil
		},
		FindPendingFunc: func(ctx context.Context, userID string) ([]domain.Approval, error) {
			if userID != "u1" {
				return nil, nil
			}
			return []domain.Approval{{ID: "p1", ApprovalType: domain.ApprovalTypeStories, Status: domain.ApprovalStatusPending}}, nil
		},
	}
	ts := newTestServer(t, repo, AuthController{})

	resp, body := post(t, ts.api.URL+"/api/approvals",
		`{"type":"stories","itemId":"stories-001","title":"Week 32","data":{"stories":[1,2]},"requestingUserId":"u1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.ApprovalStatusPending, saved.Status)
	assert.JSONEq(t, `{"stories":[1,2]}`, saved.Data.String)
	assert.Equal(t, saved.ID, body["id"])
	assert.Equal(t, 1, ts.changes.Wakeups())

	resp, _ = post(t, ts.api.URL+"/api/approvals", `{"title":"no type"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(ts.api.URL + "/api/approvals/pending?userId=u1")
	require.NoError(t, err)
	defer resp.Body.Close()
	var pending []models.ApprovalApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "p1", pending[0].ID)

	resp, err = http.Get(ts.api.URL + "/api/approvals/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, AuthController{})
	resp, err := http.Get(ts.api.URL + "/healthz")
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestApproveContent_OversizedBodyRejected(t *testing.T) {
	notifier := &testutil.RecordingNotifier{}
	mux := http.NewServeMux()
	NewApprovalsController(engine.NewAdvancer(notifier, nil, nil, nil), &testutil.MockApprovalRepo{}, &recordingChanges{}, AuthController{}).
		RegisterRoutes(mux)

	body := `{"approvalType":"stories","itemId":"s1","approved":true,"userId":"u1","feedback":"` +
		strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/approve-content", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Request body too large", resp.Error)
	assert.Zero(t, notifier.CallCount())
}
