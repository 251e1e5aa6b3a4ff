package http

import (
	"log/slog"
	"net/http"

	"successpath/internal/learning"
	"successpath/internal/log"
)

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(s.ledger.Modules()).Write(w)
}

func (s *Server) handleGetModule(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	m, ok := s.ledger.Module(id)
	if !ok {
		NotFoundError("module not found").Write(w)
		return
	}
	NewJSONResponse(m).Write(w)
}

type completion struct {
	Changed bool            `json:"changed"`
	Module  learning.Module `json:"module"`
}

// handleCompleteLesson is idempotent: completing a completed lesson returns
// 200 with changed=false. Unknown modules or lessons are 404.
func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	moduleID, err := pathInt(r, "id")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	lessonID, err := pathInt(r, "lessonID")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	changed, err := s.ledger.CompleteLesson(r.Context(), moduleID, lessonID)
	if err != nil {
		log.FromContext(r.Context()).Failure(r.Context(), "Lesson completion failed", log.OpComplete, err,
			log.FieldModuleID, moduleID, log.FieldLessonID, lessonID)
		InternalServerError("failed to complete lesson").Write(w)
		return
	}
	m, ok := s.ledger.Module(moduleID)
	if !ok {
		NotFoundError("module not found").Write(w)
		return
	}
	if _, ok := m.Lesson(lessonID); !ok {
		NotFoundError("lesson not found").Write(w)
		return
	}
	if changed {
		slog.InfoContext(r.Context(), "Lesson completed",
			log.FieldModuleID, moduleID, log.FieldLessonID, lessonID, "progress", m.Progress())
	}
	NewJSONResponse(completion{Changed: changed, Module: m}).Write(w)
}
