package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"newsgram/internal/api"
	"newsgram/internal/domain"
	"newsgram/internal/service"
)

type mockScraper struct {
	scrapeFunc func(ctx context.Context) (*service.ScrapeResult, error)
}

func (m *mockScraper) Scrape(ctx context.Context) (*service.ScrapeResult, error) {
	if m.scrapeFunc != nil {
		return m.scrapeFunc(ctx)
	}
	return &service.ScrapeResult{Success: true, NewArticles: 5, TotalArticles: 8, Feeds: 2}, nil
}

type mockClassifyRunner struct {
	classifyFunc func(ctx context.Context) (*service.ClassifyResult, error)
}

func (m *mockClassifyRunner) Classify(ctx context.Context) (*service.ClassifyResult, error) {
	if m.classifyFunc != nil {
		return m.classifyFunc(ctx)
	}
	return &service.ClassifyResult{Success: true, Total: 4, Classified: 4}, nil
}

type mockGenerateRunner struct {
	generateFunc func(ctx context.Context) (*service.GenerateResult, error)
	manualFunc   func(ctx context.Context) (*service.ManualGenerateResult, error)
}

func (m *mockGenerateRunner) Generate(ctx context.Context) (*service.GenerateResult, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx)
	}
	return &service.GenerateResult{Success: true, Generated: 3}, nil
}

func (m *mockGenerateRunner) GenerateManual(ctx context.Context) (*service.ManualGenerateResult, error) {
	if m.manualFunc != nil {
		return m.manualFunc(ctx)
	}
	return &service.ManualGenerateResult{Success: true, Processed: 2}, nil
}

type mockWorkflowRunner struct {
	runFunc func(ctx context.Context) *service.WorkflowResult
}

func (m *mockWorkflowRunner) Run(ctx context.Context) *service.WorkflowResult {
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return &service.WorkflowResult{Success: true, Errors: []string{}}
}

type mockSingleClassifier struct {
	classifyFunc  func(ctx context.Context, id string) (*domain.EnhancedClassificationResult, error)
	summarizeFunc func(ctx context.Context, id string) (*domain.ArticleSummary, error)
}

func (m *mockSingleClassifier) ClassifySingle(ctx context.Context, id string) (*domain.EnhancedClassificationResult, error) {
	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, id)
	}
	return &domain.EnhancedClassificationResult{Category: "TECHNOLOGY"}, nil
}

func (m *mockSingleClassifier) Summarize(ctx context.Context, id string) (*domain.ArticleSummary, error) {
	if m.summarizeFunc != nil {
		return m.summarizeFunc(ctx, id)
	}
	return &domain.ArticleSummary{TLDR: "tldr"}, nil
}

type mockPromptStore struct {
	listFunc   func(ctx context.Context, userID string) ([]domain.PromptTemplate, error)
	getFunc    func(ctx context.Context, userID, category string) (*domain.PromptTemplate, error)
	upsertFunc func(ctx context.Context, prompt *domain.PromptTemplate) error
	deleteFunc func(ctx context.Context, userID, category string) error
}

func (m *mockPromptStore) ListByUser(ctx context.Context, userID string) ([]domain.PromptTemplate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPromptStore) GetByCategory(ctx context.Context, userID, category string) (*domain.PromptTemplate, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, category)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPromptStore) Delete(ctx context.Context, userID, category string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, category)
	}
	return nil
}

func (m *mockPromptStore) Upsert(ctx context.Context, prompt *domain.PromptTemplate) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, prompt)
	}
	prompt.ID = "prompt-1"
	return nil
}

type mockArticleCounter struct {
	countFunc func(ctx context.Context, status domain.ArticleStatus) (int64, error)
}

func (m *mockArticleCounter) CountByStatus(ctx context.Context, status domain.ArticleStatus) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, status)
	}
	return 0, nil
}

type mockPostLister struct {
	listFunc func(ctx context.Context, status domain.PostStatus, limit int) ([]domain.InstagramPost, error)
}

func (m *mockPostLister) ListByStatus(ctx context.Context, status domain.PostStatus, limit int) ([]domain.InstagramPost, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit)
	}
	return nil, nil
}

type routerOptions struct {
	scraper    *mockScraper
	classifier *mockClassifyRunner
	generator  *mockGenerateRunner
	workflow   *mockWorkflowRunner
	single     *mockSingleClassifier
	prompts    *mockPromptStore
	counter    *mockArticleCounter
	posts      *mockPostLister
	secret     string
	enforce    bool
}

func setupTestRouter(t *testing.T, opts routerOptions) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if opts.scraper == nil {
		opts.scraper = &mockScraper{}
	}
	if opts.classifier == nil {
		opts.classifier = &mockClassifyRunner{}
	}
	if opts.generator == nil {
		opts.generator = &mockGenerateRunner{}
	}
	if opts.workflow == nil {
		opts.workflow = &mockWorkflowRunner{}
	}
	if opts.single == nil {
		opts.single = &mockSingleClassifier{}
	}
	if opts.prompts == nil {
		opts.prompts = &mockPromptStore{}
	}
	if opts.counter == nil {
		opts.counter = &mockArticleCounter{}
	}
	if opts.posts == nil {
		opts.posts = &mockPostLister{}
	}

	router := gin.New()
	api.SetupRoutes(router,
		api.NewCronHandler(opts.scraper, opts.classifier, opts.generator, opts.workflow),
		api.NewArticleHandler(opts.single),
		api.NewPromptHandler(opts.prompts),
		api.NewDashboardHandler(opts.counter, opts.posts),
		opts.secret,
		opts.enforce,
	)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScrapeNews(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodGet, "/api/cron/scrape-news", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp service.ScrapeResult
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if !resp.Success || resp.NewArticles != 5 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestScrapeNews_Failure(t *testing.T) {
	router := setupTestRouter(t, routerOptions{
		scraper: &mockScraper{
			scrapeFunc: func(context.Context) (*service.ScrapeResult, error) {
				return nil, errors.New("feeds unreachable")
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/cron/scrape-news", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestClassifyArticles(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodGet, "/api/cron/classify-articles", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp service.ClassifyResult
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.Classified != 4 {
		t.Errorf("classified = %d, want 4", resp.Classified)
	}
}

func TestDailyWorkflow_FailedStageStillReturns200(t *testing.T) {
	router := setupTestRouter(t, routerOptions{
		workflow: &mockWorkflowRunner{
			runFunc: func(context.Context) *service.WorkflowResult {
				return &service.WorkflowResult{
					Success: false,
					Errors:  []string{"classifyArticles: status 500"},
					Stages: []service.StageResult{
						{Name: "scrapeNews", Status: service.StageOK},
						{Name: "classifyArticles", Status: service.StageFailed, Error: "status 500"},
						{Name: "generateInstagram", Status: service.StageOK},
					},
				}
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/cron/daily-workflow", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp service.WorkflowResult
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.Success {
		t.Error("success = true, want false")
	}
	if len(resp.Stages) != 3 {
		t.Errorf("stages = %d, want 3", len(resp.Stages))
	}
}

func TestCronAuth_EnforcedInProduction(t *testing.T) {
	router := setupTestRouter(t, routerOptions{secret: "s3cret", enforce: true})

	w := doRequest(router, http.MethodGet, "/api/cron/scrape-news", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/cron/scrape-news", nil, map[string]string{
		"Authorization": "Bearer wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for wrong secret", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/cron/scrape-news", nil, map[string]string{
		"Authorization": "Bearer s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with correct secret", w.Code)
	}
}

func TestCronAuth_NotEnforcedOutsideProduction(t *testing.T) {
	router := setupTestRouter(t, routerOptions{secret: "s3cret", enforce: false})

	w := doRequest(router, http.MethodGet, "/api/cron/scrape-news", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without auth outside production", w.Code)
	}
}

func TestClassifySingle(t *testing.T) {
	router := setupTestRouter(t, routerOptions{
		single: &mockSingleClassifier{
			classifyFunc: func(_ context.Context, id string) (*domain.EnhancedClassificationResult, error) {
				if id != "a1" {
					t.Errorf("id = %q, want a1", id)
				}
				return &domain.EnhancedClassificationResult{Category: "SCIENCE", InstagramWorthy: true}, nil
			},
		},
	})

	w := doRequest(router, http.MethodPost, "/api/classify-single", map[string]string{"id": "a1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success        bool                                 `json:"success"`
		Classification *domain.EnhancedClassificationResult `json:"classification"`
	}
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if !resp.Success || resp.Classification.Category != "SCIENCE" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestClassifySingle_MissingID(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodPost, "/api/classify-single", map[string]string{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestClassifySingle_NotFound(t *testing.T) {
	router := setupTestRouter(t, routerOptions{
		single: &mockSingleClassifier{
			classifyFunc: func(context.Context, string) (*domain.EnhancedClassificationResult, error) {
				return nil, domain.ErrNotFound
			},
		},
	})

	w := doRequest(router, http.MethodPost, "/api/classify-single", map[string]string{"id": "nope"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGenerateSummary(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodPost, "/api/generate-summary", map[string]string{"id": "a1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success bool                   `json:"success"`
		Summary *domain.ArticleSummary `json:"summary"`
	}
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.Summary.TLDR != "tldr" {
		t.Errorf("tldr = %q, want tldr", resp.Summary.TLDR)
	}
}

func TestGenerateContent(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodGet, "/api/generate-instagram-content", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp service.ManualGenerateResult
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.Processed != 2 {
		t.Errorf("processed = %d, want 2", resp.Processed)
	}
}

func TestPrompts(t *testing.T) {
	router := setupTestRouter(t, routerOptions{
		prompts: &mockPromptStore{
			listFunc: func(_ context.Context, userID string) ([]domain.PromptTemplate, error) {
				if userID != "default" {
					t.Errorf("userID = %q, want default", userID)
				}
				return []domain.PromptTemplate{{ID: "p1", Category: "TECHNOLOGY"}}, nil
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/prompts", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Prompts []domain.PromptTemplate `json:"prompts"`
	}
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if len(resp.Prompts) != 1 {
		t.Errorf("prompts = %d, want 1", len(resp.Prompts))
	}
}

func TestSavePrompt(t *testing.T) {
	var saved *domain.PromptTemplate
	router := setupTestRouter(t, routerOptions{
		prompts: &mockPromptStore{
			upsertFunc: func(_ context.Context, prompt *domain.PromptTemplate) error {
				prompt.ID = "p1"
				saved = prompt
				return nil
			},
		},
	})

	body := map[string]string{"category": "SCIENCE", "systemPrompt": "You write science captions."}
	w := doRequest(router, http.MethodPost, "/api/prompts", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if saved == nil || saved.Category != "SCIENCE" || saved.UserID != "default" {
		t.Errorf("unexpected saved prompt: %+v", saved)
	}
}

func TestGetPrompt_NotStoredReturnsNull(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodGet, "/api/prompts/SCIENCE", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if prompt, ok := resp["prompt"]; !ok || prompt != nil {
		t.Errorf("prompt = %v, want explicit null", prompt)
	}
}

func TestDeletePrompt(t *testing.T) {
	var deletedCategory string
	router := setupTestRouter(t, routerOptions{
		prompts: &mockPromptStore{
			deleteFunc: func(_ context.Context, userID, category string) error {
				if userID != "default" {
					t.Errorf("userID = %q, want default", userID)
				}
				deletedCategory = category
				return nil
			},
		},
	})

	w := doRequest(router, http.MethodDelete, "/api/prompts/TECHNOLOGY", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if deletedCategory != "TECHNOLOGY" {
		t.Errorf("deleted category = %q, want TECHNOLOGY", deletedCategory)
	}
}

func TestSavePrompt_MissingFields(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodPost, "/api/prompts", map[string]string{"category": "SCIENCE"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStats(t *testing.T) {
	counts := map[domain.ArticleStatus]int64{
		domain.StatusPending:    7,
		domain.StatusClassified: 3,
		domain.StatusGenerated:  2,
		domain.StatusPosted:     1,
	}
	router := setupTestRouter(t, routerOptions{
		counter: &mockArticleCounter{
			countFunc: func(_ context.Context, status domain.ArticleStatus) (int64, error) {
				return counts[status], nil
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/stats", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success  bool             `json:"success"`
		Articles map[string]int64 `json:"articles"`
	}
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Articles["pending"] != 7 || resp.Articles["generated"] != 2 {
		t.Errorf("unexpected counts: %+v", resp.Articles)
	}
}

func TestStats_StoreFailure(t *testing.T) {
	router := setupTestRouter(t, routerOptions{
		counter: &mockArticleCounter{
			countFunc: func(context.Context, domain.ArticleStatus) (int64, error) {
				return 0, errors.New("db down")
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/stats", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestListPosts_DefaultsToDrafts(t *testing.T) {
	var gotStatus domain.PostStatus
	var gotLimit int
	router := setupTestRouter(t, routerOptions{
		posts: &mockPostLister{
			listFunc: func(_ context.Context, status domain.PostStatus, limit int) ([]domain.InstagramPost, error) {
				gotStatus, gotLimit = status, limit
				return []domain.InstagramPost{{ID: "p1", Caption: "caption"}}, nil
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/instagram-posts", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotStatus != domain.PostStatusDraft {
		t.Errorf("status = %q, want draft", gotStatus)
	}
	if gotLimit != 20 {
		t.Errorf("limit = %d, want 20", gotLimit)
	}

	var resp struct {
		Success bool                   `json:"success"`
		Count   int                    `json:"count"`
		Posts   []domain.InstagramPost `json:"posts"`
	}
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if !resp.Success || resp.Count != 1 || len(resp.Posts) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestListPosts_UnknownStatus(t *testing.T) {
	router := setupTestRouter(t, routerOptions{})

	w := doRequest(router, http.MethodGet, "/api/instagram-posts?status=bogus", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
