package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sig-0/fxquotes/stats"
	"github.com/sig-0/fxquotes/storage/types"
)

var (
	errUnableToFetchQuotes     = errors.New("failed to fetch quotes")
	errUnableToComputeAverage  = errors.New("failed to compute average")
	errUnableToComputeSlippage = errors.New("failed to compute slippage")
	errUnableToFetchSummary    = errors.New("failed to fetch summary")
)

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &HealthResponse{
		Status: "ok",
		TS:     time.Now().UnixMilli(),
	})
}

func (s *Server) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes, ok := s.regionQuotes(w, r, errUnableToFetchQuotes)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, newQuoteResponses(quotes))
}

func (s *Server) Average(w http.ResponseWriter, r *http.Request) {
	quotes, ok := s.regionQuotes(w, r, errUnableToComputeAverage)
	if !ok {
		return
	}

	avg := stats.Average(quotes)

	writeJSON(w, http.StatusOK, &avg)
}

func (s *Server) Slippage(w http.ResponseWriter, r *http.Request) {
	quotes, ok := s.regionQuotes(w, r, errUnableToComputeSlippage)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, stats.Slippage(quotes, stats.Average(quotes)))
}

func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	region, err := types.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	quotes, ok := s.fetchQuotes(w, r, region, errUnableToFetchSummary)
	if !ok {
		return
	}

	avg := stats.Average(quotes)

	writeJSON(w, http.StatusOK, &SummaryResponse{
		Region:   region,
		Quotes:   newQuoteResponses(quotes),
		Average:  avg,
		Slippage: stats.Slippage(quotes, avg),
	})
}

// regionQuotes parses the requested region and fetches its quotes.
// On failure the error response is already written
func (s *Server) regionQuotes(
	w http.ResponseWriter,
	r *http.Request,
	failure error,
) ([]*types.Quote, bool) {
	region, err := types.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return nil, false
	}

	return s.fetchQuotes(w, r, region, failure)
}

// fetchQuotes fetches the region quotes, writing a generic failure response on error
func (s *Server) fetchQuotes(
	w http.ResponseWriter,
	r *http.Request,
	region types.Region,
	failure error,
) ([]*types.Quote, bool) {
	quotes, err := s.quoter.GetQuotes(r.Context(), region)
	if err != nil {
		s.logger.Error(
			failure.Error(),
			"region", region.String(),
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, failure)

		return nil, false
	}

	return quotes, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	_ = enc.Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
