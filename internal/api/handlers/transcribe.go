package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/nikhilbhutani/mediatranscriber/internal/api/response"
	"github.com/nikhilbhutani/mediatranscriber/internal/history"
	"github.com/nikhilbhutani/mediatranscriber/internal/models"
	"github.com/nikhilbhutani/mediatranscriber/internal/multimodal/audio"
	"github.com/nikhilbhutani/mediatranscriber/internal/multimodal/stt"
	"github.com/nikhilbhutani/mediatranscriber/internal/transcriber"
)

// multipart parts larger than this spill to disk
const maxMemory = 32 << 20

type TranscribeHandler struct {
	svc      *transcriber.Service
	recorder history.Recorder // nil disables history
}

func NewTranscribeHandler(svc *transcriber.Service, recorder history.Recorder) *TranscribeHandler {
	return &TranscribeHandler{svc: svc, recorder: recorder}
}

func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	start := time.Now()

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			log.Warn().Int64("limit", mbe.Limit).Msg("upload too large")
			response.Error(w, http.StatusRequestEntityTooLarge, response.MsgFileTooLarge)
			return
		}
		log.Warn().Err(err).Msg("invalid multipart form")
		response.Error(w, http.StatusBadRequest, response.MsgInvalidForm)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgFileRequired)
		return
	}
	defer file.Close()

	up := transcriber.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	model := r.FormValue("model")

	result, err := h.svc.Transcribe(r.Context(), up, model)

	entry := models.TranscriptionLog{
		RequestID:   chimiddleware.GetReqID(r.Context()),
		Filename:    up.Filename,
		ContentType: up.ContentType,
		FileSize:    up.Size,
		Model:       model,
		Backend:     h.svc.Backend(),
		Status:      statusOf(err),
		LatencyMs:   time.Since(start).Milliseconds(),
	}
	if entry.Model == "" {
		entry.Model = h.svc.DefaultModel()
	}
	if result != nil {
		entry.Transcoded = result.Transcoded
		entry.TextLength = len(result.Text)
	}
	h.record(r, entry)

	if err != nil {
		var ve *transcriber.ValidationError
		if errors.As(err, &ve) {
			log.Warn().Str("content_type", ve.ContentType).Str("filename", up.Filename).Msg("rejected upload")
			response.Error(w, http.StatusBadRequest, response.MsgInvalidMediaType)
			return
		}
		log.Error().Err(err).Str("filename", up.Filename).Msg("transcription failed")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	response.JSON(w, http.StatusOK, response.TranscriptionResponse{
		Transcription: result.Text,
		Success:       true,
	})
}

// record persists entry without letting a history failure affect the response.
func (h *TranscribeHandler) record(r *http.Request, entry models.TranscriptionLog) {
	if h.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()
	if err := h.recorder.Record(ctx, entry); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to record transcription")
	}
}

func statusOf(err error) string {
	var (
		ve *transcriber.ValidationError
		te *audio.TranscodeError
		se *stt.TranscriptionError
	)
	switch {
	case err == nil:
		return models.StatusSuccess
	case errors.As(err, &ve):
		return models.StatusRejected
	case errors.As(err, &te):
		return models.StatusTranscodeError
	case errors.As(err, &se):
		return models.StatusTranscriptionError
	default:
		return models.StatusError
	}
}
