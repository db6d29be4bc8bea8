package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/anicoll/nem-integration/internal/pkg/aemo"
	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
	"go.uber.org/zap"
)

type aggregator interface {
	GetCurrentSummaries(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error)
}

type server struct {
	agg            aggregator
	defaultRegions []string
	logger         *zap.Logger
}

func New(agg aggregator, defaultRegions []string) *server {
	return &server{agg: agg, defaultRegions: defaultRegions, logger: zap.L()}
}

// Routes wires the public surface onto a mux.
func (s *server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /summaries", s.GetSummaries)
	mux.HandleFunc("GET /healthz", s.Health)
	return mux
}

func (s *server) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// GetSummaries serves the current settlement window summaries. Regions come
// from a comma separated "regions" query of short codes, defaulting to the
// configured set.
func (s *server) GetSummaries(w http.ResponseWriter, r *http.Request) {
	codes := s.defaultRegions
	if q := r.URL.Query().Get("regions"); q != "" {
		codes = strings.Split(q, ",")
	}

	summaries, err := s.agg.GetCurrentSummaries(r.Context(), codes)
	if err != nil {
		s.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		s.logger.Error("failed to encode summaries", zap.Error(err))
	}
}

func (s *server) handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, nem.ErrUnknownRegion):
		status = http.StatusBadRequest
	case errors.Is(err, aemo.ErrAuth), errors.Is(err, aemo.ErrClient):
		status = http.StatusBadGateway
	}
	s.logger.Error("request failed", zap.Error(err), zap.Int("status", status))
	w.WriteHeader(status)
	w.Write([]byte(err.Error()))
}
