package server

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/types"
)

// fakeClient is a scripted llm.Client for handler tests.
type fakeClient struct {
	summary     string
	summaryErr  error
	draft       string
	generateErr error

	generateCalls int
}

func (f *fakeClient) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	if f.summaryErr != nil {
		return "", f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	f.generateCalls++
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.draft, nil
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                       { return nil }

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	s, err := New(Config{Port: 0, Client: client})
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "coverletter-agent", resp.Service)
	assert.Equal(t, Version, resp.Version)
}

func TestHandleGenerate(t *testing.T) {
	t.Run("Happy path", func(t *testing.T) {
		client := &fakeClient{
			summary: "Go platform engineer.",
			draft:   "Dear Hiring Manager,\n\nI am excited to apply. Sincerely,\n[Your Name]",
		}
		s := newTestServer(t, client)

		rec := postJSON(t, s, "/generate", types.GenerateRequest{
			ResumeText:     "Ten years of Go.",
			JobDescription: "Senior Go engineer role.",
			Company:        "Acme",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.CoverLetter, "Dear"))
		assert.Equal(t, "Go platform engineer.", resp.Summary)
		assert.Equal(t, "processing complete", resp.Status)
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("Invalid JSON body", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{})

		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{nope"))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing job source", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{})

		rec := postJSON(t, s, "/generate", types.GenerateRequest{ResumeText: "resume"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "job_description or job_url")
	})

	t.Run("Both job sources", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{})

		rec := postJSON(t, s, "/generate", types.GenerateRequest{
			ResumeText:     "resume",
			JobDescription: "jd",
			JobURL:         "https://example.com/j",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Generation failure still returns a letter", func(t *testing.T) {
		client := &fakeClient{
			summary:     "Go engineer.",
			generateErr: errors.New("model overloaded"),
		}
		s := newTestServer(t, client)

		rec := postJSON(t, s, "/generate", types.GenerateRequest{
			ResumeText:     "Ten years of Go.",
			JobDescription: "Senior role.",
			Company:        "Acme",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.CoverLetter, "Dear Hiring Manager,")
		assert.Contains(t, resp.Status, "fallback letter")
	})
}

func TestHandleGenerateUpload(t *testing.T) {
	client := &fakeClient{
		summary: "Go engineer.",
		draft:   "Dear Hiring Manager, body. Sincerely,",
	}
	s := newTestServer(t, client)

	t.Run("Text resume upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("resume", "resume.txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte("Ten years building Go services."))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("job_description", "Senior Go role."))
		require.NoError(t, mw.WriteField("company", "Acme"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/generate/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp types.GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.CoverLetter, "Dear"))
	})

	t.Run("Unsupported resume format", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("resume", "resume.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("job_description", "jd"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/generate/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing resume file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("job_description", "jd"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/generate/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGenerateStream(t *testing.T) {
	client := &fakeClient{
		summary: "Go engineer.",
		draft:   "Dear Hiring Manager, body. Sincerely,",
	}
	s := newTestServer(t, client)

	rec := postJSON(t, s, "/generate/stream", types.GenerateRequest{
		ResumeText:     "Ten years of Go.",
		JobDescription: "Senior role.",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, "event: result")
	assert.Contains(t, body, "event: complete")
}

func TestHandleSummarize(t *testing.T) {
	t.Run("Model summary", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{summary: "Condensed background."})

		rec := postJSON(t, s, "/summarize", types.SummarizeRequest{Text: "Long resume text."})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.SummarizeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Condensed background.", resp.Summary)
		assert.Equal(t, "model", resp.Method)
	})

	t.Run("Fallback on model failure", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{summaryErr: errors.New("quota")})

		rec := postJSON(t, s, "/summarize", types.SummarizeRequest{Text: "First sentence. Second sentence."})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.SummarizeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "fallback", resp.Method)
		assert.Contains(t, resp.Summary, "First sentence")
	})

	t.Run("Empty text rejected", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{})
		rec := postJSON(t, s, "/summarize", types.SummarizeRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleExtract(t *testing.T) {
	s := newTestServer(t, &fakeClient{})

	t.Run("Extracts and formats from marker", func(t *testing.T) {
		rec := postJSON(t, s, "/extract", types.ExtractRequest{
			Draft:   "echoed prompt text Dear Hiring Manager, I am a fit. Sincerely, Me",
			Company: "Acme",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.ExtractResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.CoverLetter, "Dear Hiring Manager,"))
		assert.NotContains(t, resp.CoverLetter, "echoed prompt")
	})

	t.Run("Degenerate draft returns 422", func(t *testing.T) {
		rec := postJSON(t, s, "/extract", types.ExtractRequest{Draft: "   ", Prompt: "   "})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandleExtractText(t *testing.T) {
	s := newTestServer(t, &fakeClient{})

	postFile := func(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/extract/text", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	t.Run("Text document returns plain text", func(t *testing.T) {
		rec := postFile(t, "notes.txt", []byte("Ten years building Go services."))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "Ten years building Go services.")
	})

	t.Run("Unsupported format rejected", func(t *testing.T) {
		rec := postFile(t, "photo.png", []byte{0x89, 0x50, 0x4e, 0x47})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing file rejected", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("unrelated", "field"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/extract/text", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleTailor(t *testing.T) {
	t.Run("Failure degrades to the original bullet", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{generateErr: errors.New("down")})

		rec := postJSON(t, s, "/tailor", types.TailorRequest{
			Bullet:         "maintained CI pipelines",
			JobDescription: "release engineering",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp types.TailorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "maintained CI pipelines", resp.Bullet)
	})

	t.Run("Missing fields rejected", func(t *testing.T) {
		s := newTestServer(t, &fakeClient{})
		rec := postJSON(t, s, "/tailor", types.TailorRequest{Bullet: "only bullet"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fakeClient{})

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiting(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	client := &fakeClient{
		summary: "Go engineer.",
		draft:   "Dear Hiring Manager, body. Sincerely,",
	}
	s, err := New(Config{Port: 0, Client: client})
	require.NoError(t, err)
	defer s.rateLimiter.Stop()

	body := types.GenerateRequest{ResumeText: "resume", JobDescription: "jd"}

	// Burst for POST /generate is 3
	for i := 0; i < 3; i++ {
		rec := postJSON(t, s, "/generate", body)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
		assert.Equal(t, "20", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := postJSON(t, s, "/generate", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}
