package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.dashboard == nil {
		ServiceUnavailableError("dashboard not configured").Write(w)
		return
	}
	date, err := parseDateQuery(r.URL.Query(), "date", s.today())
	if err != nil {
		BadRequestError("invalid date: use YYYY-MM-DD").Write(w)
		return
	}
	NewJSONResponse(s.dashboard.Build(r.Context(), date)).Write(w)
}
