package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/stellar/route-engine/internal/domain"
	"github.com/stellar/route-engine/internal/routeerr"
)

// routeRequest is the wire shape of POST /api/routes (spec.md §6 "Input
// fields").
type routeRequest struct {
	SourceAssetCode   string `json:"source_asset_code"`
	SourceAssetIssuer string `json:"source_asset_issuer"`
	DestAssetCode     string `json:"dest_asset_code"`
	DestAssetIssuer   string `json:"dest_asset_issuer"`
	Amount            string `json:"amount"`
	Mode              string `json:"mode"`
	MaxHops           int    `json:"max_hops"`
	MaxRoutes         int    `json:"max_routes"`
	NoCache           bool   `json:"no_cache"`
}

func (req routeRequest) toQuery(correlationID string) domain.Query {
	mode := domain.ModeSend
	if req.Mode == string(domain.ModeReceive) {
		mode = domain.ModeReceive
	}
	return domain.Query{
		SourceCode:    req.SourceAssetCode,
		SourceIssuer:  req.SourceAssetIssuer,
		DestCode:      req.DestAssetCode,
		DestIssuer:    req.DestAssetIssuer,
		Amount:        req.Amount,
		Mode:          mode,
		MaxHops:       req.MaxHops,
		MaxRoutes:     req.MaxRoutes,
		NoCache:       req.NoCache,
		CorrelationID: correlationID,
	}
}

// handleFindRoutes handles POST /api/routes.
func (s *Server) handleFindRoutes(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, routeerr.BadRequest("malformed request body"))
		return
	}

	correlationID := middleware.GetReqID(r.Context())
	result, err := s.resolver.FindRoutes(r.Context(), req.toQuery(correlationID))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleRebuildGraph handles POST /api/routes/graph/rebuild, the manual
// trigger from spec.md §4.7 "Manual trigger".
func (s *Server) handleRebuildGraph(w http.ResponseWriter, r *http.Request) {
	if s.graph.IsBuilding() {
		s.writeError(w, routeerr.BuildInProgress())
		return
	}

	go func() {
		if err := s.scheduler.RunNow(s.rebuildJob); err != nil {
			s.log.Error().Err(err).Msg("manual graph rebuild failed")
		}
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "rebuild started"})
}

// handleGraphStats handles GET /api/routes/graph/stats.
func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.graph.Stats())
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "route-engine",
	})
}

// handleSystemStatus reports process-wide counters and graph stats (spec.md
// §7 "system status").
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"counters": s.resolver.Stats(),
		"graph":    s.graph.Stats(),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps a routeerr.Error (or any other error) onto the wire shape
// from spec.md §7 "User-visible shape".
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if re, ok := routeerr.As(err); ok {
		s.writeJSON(w, re.StatusCode, map[string]interface{}{
			"error":       true,
			"code":        string(re.Code),
			"message":     re.Message,
			"status_code": re.StatusCode,
		})
		return
	}
	s.log.Error().Err(err).Msg("unhandled error")
	s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":       true,
		"code":        string(routeerr.CodeInternalError),
		"message":     "internal error",
		"status_code": http.StatusInternalServerError,
	})
}
