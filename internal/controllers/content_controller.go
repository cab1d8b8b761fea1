package controllers

import (
	"net/http"
	"strconv"

	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/util"
)

// ContentController serves the read-only dashboard lists: articles, newsletter history and workflow logs.
type ContentController struct {
	AuthController
	ArticleRepo     engine.ArticleRepo
	NewsletterRepo  engine.NewsletterRepo
	WorkflowLogRepo engine.WorkflowLogRepo
}

func NewContentController(articles engine.ArticleRepo, newsletters engine.NewsletterRepo,
	logs engine.WorkflowLogRepo, auth AuthController) *ContentController {
	return &ContentController{ArticleRepo: articles, NewsletterRepo: newsletters, WorkflowLogRepo: logs, AuthController: auth}
}

func (c *ContentController) handleGetArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := parseLimit(w, q.Get("limit"))
	if !ok {
		return
	}
	filter := models.ArticleFilter{Status: q.Get("status"), Limit: limit}
	if v := q.Get("relevant"); v != "" {
		relevant, err := strconv.ParseBool(v)
		if err != nil {
			util.WriteErrorResponse(w, http.StatusBadRequest, "relevant must be true or false", v)
			return
		}
		filter.Relevant = &relevant
	}
	articles, err := c.ArticleRepo.FindRecent(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to load articles")
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, articles)
}

func (c *ContentController) handleGetNewsletters(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r.URL.Query().Get("limit"))
	if !ok {
		return
	}
	newsletters, err := c.NewsletterRepo.FindHistory(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, "Failed to load newsletters")
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, newsletters)
}

func (c *ContentController) handleGetWorkflowLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r.URL.Query().Get("limit"))
	if !ok {
		return
	}
	logs, err := c.WorkflowLogRepo.FindRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, "Failed to load workflow logs")
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, logs)
}

// parseLimit returns 0 (repository default) for an empty value and writes a 400 for anything
// that is not a non-negative integer.
func parseLimit(w http.ResponseWriter, v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		util.WriteErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer", v)
		return 0, false
	}
	return limit, true
}
