package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/docload"
	"github.com/jonathan/coverletter-agent/internal/letter"
	"github.com/jonathan/coverletter-agent/internal/pipeline"
	"github.com/jonathan/coverletter-agent/internal/summarize"
	"github.com/jonathan/coverletter-agent/internal/types"
)

// maxUploadSize caps multipart resume uploads.
const maxUploadSize = 10 << 20 // 10 MB

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Service: "coverletter-agent",
		Version: Version,
	})
}

// handleGenerate runs the full cover letter pipeline for a JSON request.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s.runGenerate(w, r, &req)
}

// handleGenerateUpload runs the pipeline with the resume taken from a
// multipart file upload (PDF, DOCX, or plain text).
func (s *Server) handleGenerateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing resume file: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read resume file: "+err.Error())
		return
	}

	resumeText, err := docload.Load(header.Filename, data)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Failed to extract resume text: "+err.Error())
		return
	}

	req := types.GenerateRequest{
		ResumeText:     resumeText,
		JobDescription: r.FormValue("job_description"),
		JobURL:         r.FormValue("job_url"),
		Company:        r.FormValue("company"),
		Position:       r.FormValue("position"),
		Profile:        r.FormValue("profile"),
	}
	if v := r.FormValue("use_browser"); v != "" {
		req.UseBrowser, _ = strconv.ParseBool(v)
	}

	s.runGenerate(w, r, &req)
}

// runGenerate validates the request and executes the pipeline.
func (s *Server) runGenerate(w http.ResponseWriter, r *http.Request, req *types.GenerateRequest) {
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Temperature > 0 {
		profile.Temperature = req.Temperature
	}

	requestID := uuid.New().String()
	log.Printf("[generate] Starting run %s", requestID)

	result, err := pipeline.Run(r.Context(), pipeline.RunOptions{
		ResumeText: req.ResumeText,
		JobText:    req.JobDescription,
		JobURL:     req.JobURL,
		Company:    req.Company,
		Position:   req.Position,
		Profile:    profile,
		Client:     s.client,
		UseBrowser: req.UseBrowser,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.GenerateResponse{
		CoverLetter: result.CoverLetter.Text,
		Summary:     result.Summary.Text,
		Status:      result.Status,
		RequestID:   requestID,
	})
}

// handleGenerateStream runs the pipeline and streams progress events over SSE.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	requestID := uuid.New().String()

	result, err := pipeline.Run(r.Context(), pipeline.RunOptions{
		ResumeText: req.ResumeText,
		JobText:    req.JobDescription,
		JobURL:     req.JobURL,
		Company:    req.Company,
		Position:   req.Position,
		Profile:    profile,
		Client:     s.client,
		UseBrowser: req.UseBrowser,
		OnProgress: func(event pipeline.ProgressEvent) {
			_ = sse.WriteEvent("progress", event)
		},
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	_ = sse.WriteEvent("result", types.GenerateResponse{
		CoverLetter: result.CoverLetter.Text,
		Summary:     result.Summary.Text,
		Status:      result.Status,
		RequestID:   requestID,
	})
	sse.WriteComplete(requestID, result.Status)
}

// handleSummarize condenses posted text without generating a letter.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req types.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	assembler := summarize.NewAssembler(s.client, profile)
	result := assembler.Summarize(r.Context(), req.Text)

	s.jsonResponse(w, http.StatusOK, types.SummarizeResponse{
		Summary:   result.Text,
		Method:    string(result.Method),
		Chunks:    result.Chunks,
		RequestID: uuid.New().String(),
	})
}

// handleExtract recovers and formats a letter from raw model output. This
// endpoint never calls a model.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	body, err := letter.Extract(req.Draft, req.Prompt)
	if err != nil {
		if errors.Is(err, letter.ErrExtractionEmpty) {
			s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ExtractResponse{
		CoverLetter: letter.Format(body, req.Company, ""),
		RequestID:   uuid.New().String(),
	})
}

// handleExtractText returns the plain text of an uploaded document (PDF,
// DOCX, or plain text) as text/plain. No model calls.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing document file: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read document file: "+err.Error())
		return
	}

	text, err := docload.Load(header.Filename, data)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Failed to extract document text: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// handleTailor rewrites a single resume bullet against a job description.
// Failures degrade to the original bullet rather than erroring.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req types.TailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bullet, err := pipeline.TailorBullet(r.Context(), s.client, req.Bullet, req.JobDescription, profile)
	if err != nil {
		log.Printf("[tailor] Rewrite degraded to original bullet: %v", err)
	}

	s.jsonResponse(w, http.StatusOK, types.TailorResponse{
		Bullet:    bullet,
		RequestID: uuid.New().String(),
	})
}

func (s *Server) resolveProfile(name string) (config.Profile, error) {
	return config.ProfileByName(name)
}
