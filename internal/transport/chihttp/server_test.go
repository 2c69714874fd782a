package chihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/chunker"
	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/usecase/answer"
	"github.com/docsift/docsift/internal/usecase/classify"
	"github.com/docsift/docsift/internal/usecase/health"
	"github.com/docsift/docsift/internal/usecase/ingest"
	"github.com/docsift/docsift/internal/usecase/planner"
	"github.com/docsift/docsift/internal/usecase/retrieve"
	"github.com/docsift/docsift/internal/usecase/summarize"
	"github.com/docsift/docsift/internal/usecase/synthesis"
)

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) EmbedBatch(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if f.err != nil {
		return domain.BatchEmbeddingResult{}, f.err
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = []float32{float32(len(text)%7 + 1), 1}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: 2 * len(texts)}, nil
}

type fakeReasoner struct{}

func (fakeReasoner) Complete(_ context.Context, instructions, _ string) (string, error) {
	if strings.HasPrefix(instructions, "Classify into ONE category") {
		return "QUERY", nil
	}
	return "a grounded answer", nil
}

type fakeChecker struct {
	err error
}

func (f *fakeChecker) HealthCheck(_ context.Context) error { return f.err }

type serverFixture struct {
	server    *Server
	store     *corpus.Store
	embedding *fakeChecker
}

func newTestServer(t *testing.T, embedErr error) *serverFixture {
	t.Helper()
	logger := zap.NewNop()
	ch, err := chunker.New(1000, 200)
	if err != nil {
		t.Fatalf("chunker.New: %v", err)
	}

	store := corpus.NewStore()
	emb := fakeEmbedder{err: embedErr}
	reasoner := fakeReasoner{}
	embedding := &fakeChecker{}

	p := planner.New(
		classify.New(reasoner, logger),
		retrieve.New(store, emb, 5, 0.1, 200, logger),
		answer.New(reasoner, logger),
		summarize.New(store, reasoner, 10, 1, logger),
		synthesis.NewComparator(reasoner, logger),
		synthesis.NewTimelineBuilder(reasoner, logger),
		synthesis.NewAggregator(reasoner, logger),
		logger,
	)

	return &serverFixture{
		server:    NewServer(ingest.New(ch, emb, store, logger), p, store, health.New(nil, embedding, &fakeChecker{}), nil, logger),
		store:     store,
		embedding: embedding,
	}
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadDocuments(t *testing.T) {
	f := newTestServer(t, nil)

	body, contentType := multipartBody(t, map[string]string{
		"notes.txt": "First page here.\fSecond page here.",
	})
	req := httptest.NewRequest("POST", "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	f.server.UploadDocuments(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var summary ingest.Summary
	if err := json.NewDecoder(rr.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Documents != 1 || summary.Chunks != 2 {
		t.Errorf("summary = %+v, want 1 document, 2 chunks", summary)
	}
	if f.store.View().Len() != 2 {
		t.Errorf("corpus holds %d chunks", f.store.View().Len())
	}
}

func TestUploadDocuments_NoFiles(t *testing.T) {
	f := newTestServer(t, nil)

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest("POST", "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	f.server.UploadDocuments(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUploadDocuments_BlankFile(t *testing.T) {
	f := newTestServer(t, nil)

	body, contentType := multipartBody(t, map[string]string{"blank.txt": "   "})
	req := httptest.NewRequest("POST", "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	f.server.UploadDocuments(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != codeEmptyCorpus {
		t.Errorf("error code = %q", errResp.Code)
	}
}

func TestUploadDocuments_ProviderError(t *testing.T) {
	f := newTestServer(t, domain.ErrEmbeddingProviderError)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "content"})
	req := httptest.NewRequest("POST", "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	f.server.UploadDocuments(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestAsk(t *testing.T) {
	f := newTestServer(t, nil)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "The answer lives here."})
	up := httptest.NewRequest("POST", "/v1/documents", body)
	up.Header.Set("Content-Type", contentType)
	f.server.UploadDocuments(httptest.NewRecorder(), up)

	req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader(`{"question":"where does the answer live?"}`))
	rr := httptest.NewRecorder()
	f.server.Ask(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var result domain.TaskResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Err)
	}
	if result.Intent != domain.IntentQuery {
		t.Errorf("intent = %q", result.Intent)
	}
	if result.Payload.Content != "a grounded answer" {
		t.Errorf("content = %q", result.Payload.Content)
	}
}

func TestAsk_EmptyQuestionIsFailedResult(t *testing.T) {
	f := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader(`{"question":""}`))
	rr := httptest.NewRecorder()
	f.server.Ask(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want the uniform envelope at 200", rr.Code)
	}
	var result domain.TaskResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success || result.Err != "no input" {
		t.Errorf("result = %+v", result)
	}
}

func TestAsk_InvalidBody(t *testing.T) {
	f := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	f.server.Ask(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestStats(t *testing.T) {
	f := newTestServer(t, nil)

	body, contentType := multipartBody(t, map[string]string{"a.txt": "Page one.\fPage two."})
	up := httptest.NewRequest("POST", "/v1/documents", body)
	up.Header.Set("Content-Type", contentType)
	f.server.UploadDocuments(httptest.NewRecorder(), up)

	req := httptest.NewRequest("GET", "/v1/stats", http.NoBody)
	rr := httptest.NewRecorder()
	f.server.Stats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp statsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if resp.TotalChunks != 2 {
		t.Errorf("total chunks = %d, want 2", resp.TotalChunks)
	}
	st, ok := resp.Documents["a.txt"]
	if !ok || st.ChunkCount != 2 || st.PageCount != 2 {
		t.Errorf("stats for a.txt = %+v", st)
	}
}

func TestHealthz(t *testing.T) {
	f := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	f.server.Healthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}

	f.embedding.err = errors.New("provider down")
	rr = httptest.NewRecorder()
	f.server.Healthz(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when degraded", rr.Code)
	}
}

func TestRouter_AuthGuardsAPI(t *testing.T) {
	f := newTestServer(t, nil)
	f.server.apiKeys = []string{"secret"}
	router := f.server.Router()

	req := httptest.NewRequest("GET", "/v1/stats", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated stats: status = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest("GET", "/v1/stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("authenticated stats: status = %d, want 200", rr.Code)
	}

	req = httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("healthz: status = %d, want 200", rr.Code)
	}
}
