package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/u759/AllanAI-sub001/application/pipeline"
	"github.com/u759/AllanAI-sub001/domain/match"
)

// maxUploadBytes caps one uploaded match video.
const maxUploadBytes = 2 << 30

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("video")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing video file in multipart form")
		return
	}
	defer file.Close()

	path, err := s.store.Save(file, header.Filename)
	if err != nil {
		s.logger.Error("storing uploaded video failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not store video")
		return
	}

	m := &match.Match{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Status:    match.StatusUploaded,
		VideoPath: path,
	}
	if err := s.repo.Save(r.Context(), m); err != nil {
		s.logger.Error("creating match failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not create match")
		return
	}

	if err := s.pool.Submit(m.ID); err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			s.writeError(w, http.StatusTooManyRequests, "processing queue is full, retry later")
			return
		}
		s.logger.Error("submitting match failed", "match_id", m.ID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not queue match for processing")
		return
	}

	s.writeJSON(w, http.StatusAccepted, m)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	matches, err := s.repo.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not list matches")
		return
	}
	s.writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":          m.ID,
		"status":      m.Status,
		"processedAt": m.ProcessedAt,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m.Statistics)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m.Events)
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m.Highlights)
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	// ServeFile handles range requests, which mobile players rely on.
	http.ServeFile(w, r, m.VideoPath)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	if err := s.store.Remove(m.VideoPath); err != nil {
		s.logger.Warn("removing stored video failed", "match_id", m.ID, "error", err)
	}
	if err := s.repo.Delete(r.Context(), m.ID); err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not delete match")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadMatch(w http.ResponseWriter, r *http.Request) (*match.Match, bool) {
	id := mux.Vars(r)["id"]
	m, err := s.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "match not found")
		} else {
			s.writeError(w, http.StatusInternalServerError, "could not load match")
		}
		return nil, false
	}
	return m, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
