package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/nikhilbhutani/mediatranscriber/internal/api/response"
	"github.com/nikhilbhutani/mediatranscriber/internal/history"
	"github.com/nikhilbhutani/mediatranscriber/internal/models"
)

// HistoryLister lists recorded transcriptions, newest first.
type HistoryLister interface {
	List(ctx context.Context, q history.Query) ([]models.TranscriptionLog, error)
}

type HistoryHandler struct {
	lister HistoryLister
}

func NewHistoryHandler(lister HistoryLister) *HistoryHandler {
	return &HistoryHandler{lister: lister}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	logs, err := h.lister.List(r.Context(), history.Query{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list transcriptions")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"transcriptions": logs, "count": len(logs)})
}
