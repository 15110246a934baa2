package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/importer"
	"github.com/vytor/studydeck/internal/jobs"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/worker"
)

const defaultMaxUploadBytes = 10 << 20

func (s *Server) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

// handleImport accepts a csv or xlsx upload in the "file" form field and
// queues it for background conversion into cards.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	profile := profileFromContext(r.Context())
	deck := chi.URLParam(r, "deck")

	limit := s.maxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("invalid upload: %v", err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	if _, err := importer.FormatFromFilename(header.Filename); err != nil {
		handleError(w, r, errors.NewValidationError("file", err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("failed to read upload: %v", err)))
		return
	}

	job, err := s.ImportQueue.EnqueueImport(r.Context(), jobs.ImportRequest{
		ProfileID: profile.ID,
		Deck:      deck,
		Filename:  header.Filename,
		Data:      data,
	})
	if err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			handleError(w, r, errors.NewUnavailableError("import queue is busy, try again later", err))
			return
		}
		handleError(w, r, err)
		return
	}

	log.Debug("queued import %s: file=%q, bytes=%d, deck=%q", job.ID, header.Filename, len(data), deck)
	writeJSON(w, r, http.StatusAccepted, job)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	id := chi.URLParam(r, "id")

	job, err := s.ImportQueue.ImportStatus(r.Context(), profile.ID, id)
	if err != nil {
		if stderrors.Is(err, jobs.ErrJobNotFound) {
			handleError(w, r, errors.NewNotFoundError("import", id))
			return
		}
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, job)
}
