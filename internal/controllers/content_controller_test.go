package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockArticleRepo struct {
	LastFilter models.ArticleFilter
}

func (m *MockArticleRepo) FindRecent(ctx context.Context, filter models.ArticleFilter) ([]domain.Article, error) {
	m.LastFilter = filter
	return []domain.Article{{ID: "a1", Title: "AI funding round", AiRelevant: true}}, nil
}

type MockNewsletterRepo struct {
	LastLimit int
}

func (m *MockNewsletterRepo) FindHistory(ctx context.Context, limit int) ([]domain.Newsletter, error) {
	m.LastLimit = limit
	return []domain.Newsletter{}, nil
}

type MockStats struct {
	Err error
}

func (m *MockStats) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return map[string]int{"pending": 2}, nil
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestContentController(t *testing.T) {
	articles := &MockArticleRepo{}
	newsletters := &MockNewsletterRepo{}
	logs := &testutil.MockWorkflowLogRepo{}
	mux := http.NewServeMux()
	NewContentController(articles, newsletters, logs, AuthController{}).RegisterRoutes(mux)

	rr := serve(mux, http.MethodGet, "/api/articles?relevant=true&status=selected&limit=5")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, articles.LastFilter.Relevant)
	assert.True(t, *articles.LastFilter.Relevant)
	assert.Equal(t, "selected", articles.LastFilter.Status)
	assert.Equal(t, 5, articles.LastFilter.Limit)
	var got []domain.Article
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "a1", got[0].ID)

	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodGet, "/api/articles?relevant=maybe").Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodGet, "/api/newsletters?limit=-1").Code)

	rr = serve(mux, http.MethodGet, "/api/newsletters")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, newsletters.LastLimit)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = serve(mux, http.MethodGet, "/api/workflow-logs?limit=20")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthController_Stats(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthController(&MockStats{}).RegisterRoutes(mux)
	rr := serve(mux, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","approvals":{"pending":2}}`, rr.Body.String())

	mux = http.NewServeMux()
	NewHealthController(&MockStats{Err: errors.New("no such table: approvals")}).RegisterRoutes(mux)
	rr = serve(mux, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
