package http

import (
	"net/http"

	"successpath/internal/services"
)

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	if s.genres == nil {
		NewJSONResponse([]string{}).Write(w)
		return
	}
	NewJSONResponse(s.genres.Genres()).Write(w)
}

func (s *Server) handleWorkoutMusic(w http.ResponseWriter, r *http.Request) {
	if s.music == nil {
		ServiceUnavailableError("music source not configured").Write(w)
		return
	}
	tracks, err := s.music.WorkoutMusic(r.Context(), r.PathValue("genre"))
	if err != nil {
		collaboratorError(r.Context(), err).Write(w)
		return
	}
	NewJSONResponse(tracks).Write(w)
}

func (s *Server) withPlayer(w http.ResponseWriter, fn func(*services.Player)) {
	if s.player == nil {
		ServiceUnavailableError("player not configured").Write(w)
		return
	}
	fn(s.player)
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	s.withPlayer(w, func(p *services.Player) {
		NewJSONResponse(p.State()).Write(w)
	})
}

type genreChange struct {
	Applied bool                 `json:"applied"`
	State   services.PlayerState `json:"state"`
}

// handlePlayerGenre loads a genre into the player. When a newer genre request
// overtook this one, the response reports applied=false with the state left
// by the newer request.
func (s *Server) handlePlayerGenre(w http.ResponseWriter, r *http.Request) {
	s.withPlayer(w, func(p *services.Player) {
		body := NewRequestBodyParser(r)
		if err := body.Parse(); err != nil {
			BadRequestError(err.Error()).Write(w)
			return
		}
		genre := body.Get("genre")
		if genre == "" {
			UnprocessableEntityError("genre is required").Write(w)
			return
		}
		applied, err := p.SetGenre(r.Context(), genre)
		if err != nil {
			collaboratorError(r.Context(), err).Write(w)
			return
		}
		NewJSONResponse(genreChange{Applied: applied, State: p.State()}).Write(w)
	})
}

func (s *Server) handlePlayerToggle(w http.ResponseWriter, r *http.Request) {
	s.withPlayer(w, func(p *services.Player) {
		NewJSONResponse(p.PlayPause()).Write(w)
	})
}

func (s *Server) handlePlayerNext(w http.ResponseWriter, r *http.Request) {
	s.withPlayer(w, func(p *services.Player) {
		NewJSONResponse(p.Next()).Write(w)
	})
}

func (s *Server) handlePlayerPrevious(w http.ResponseWriter, r *http.Request) {
	s.withPlayer(w, func(p *services.Player) {
		NewJSONResponse(p.Previous()).Write(w)
	})
}

func (s *Server) handlePlayerSelect(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "trackID")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	s.withPlayer(w, func(p *services.Player) {
		st, ok := p.SelectTrack(id)
		if !ok {
			NotFoundError("track not in current playlist").Write(w)
			return
		}
		NewJSONResponse(st).Write(w)
	})
}
