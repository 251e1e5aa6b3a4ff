// Package http serves the JSON API over the ledger, learning, workout and
// dashboard services.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"successpath/internal/api"
	"successpath/internal/core"
	"successpath/internal/log"
	"successpath/internal/middleware/ratelimit"
	"successpath/internal/middleware/security"
	"successpath/internal/middleware/trace"
	"successpath/internal/services"
)

// GenreLister names the genres offered by the music source.
type GenreLister interface {
	Genres() []string
}

type DietPlanner interface {
	DietPlan(ctx context.Context, goals string) (api.DietPlan, error)
}

// Deps are the collaborators of the server. Ledger is required; nil optional
// services disable their routes with 503.
type Deps struct {
	Ledger    *services.Ledger
	Player    *services.Player
	Dashboard *services.Dashboard
	Music     services.MusicSource
	Genres    GenreLister
	Diet      DietPlanner
	Metrics   http.Handler

	Logger   *log.Logger
	ClientIP func(*http.Request) string
	Observe  trace.Observer
	OnLimit  func(*http.Request)
	Ready    func(context.Context) error
	Today    func() core.Date

	RateLimitPerMinute int
}

type Server struct {
	http.Server
	ledger    *services.Ledger
	player    *services.Player
	dashboard *services.Dashboard
	music     services.MusicSource
	genres    GenreLister
	diet      DietPlanner
	ready     func(context.Context) error
	today     func() core.Date
	limiter   *ratelimit.Limiter

	shutdownOnce sync.Once
}

func NewServer(addr string, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = log.Default(log.ComponentHTTP)
	}
	if d.ClientIP == nil {
		resolver, _ := security.NewResolver()
		d.ClientIP = resolver.ClientIP
	}
	if d.Today == nil {
		d.Today = core.Today
	}
	if d.RateLimitPerMinute < 1 {
		d.RateLimitPerMinute = 60
	}

	s := &Server{
		ledger:    d.Ledger,
		player:    d.Player,
		dashboard: d.Dashboard,
		music:     d.Music,
		genres:    d.Genres,
		diet:      d.Diet,
		ready:     d.Ready,
		today:     d.Today,
		limiter:   ratelimit.NewLimiter(d.RateLimitPerMinute, 5*time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	mux.HandleFunc("GET /finance/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /finance/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /finance/transactions/summary", s.handleFinanceSummary)
	mux.HandleFunc("GET /finance/transactions/monthly", s.handleFinanceMonthly)

	mux.HandleFunc("GET /diet/meals", s.handleListMeals)
	mux.HandleFunc("POST /diet/meals", s.handleCreateMeal)
	mux.HandleFunc("DELETE /diet/meals/{id}", s.handleDeleteMeal)
	mux.HandleFunc("GET /diet/macros", s.handleDailyMacros)
	mux.HandleFunc("GET /diet/plan", s.handleDietPlan)

	mux.HandleFunc("GET /learning/modules", s.handleListModules)
	mux.HandleFunc("GET /learning/modules/{id}", s.handleGetModule)
	mux.HandleFunc("POST /learning/modules/{id}/lessons/{lessonID}/complete", s.handleCompleteLesson)

	mux.HandleFunc("GET /workout/genres", s.handleGenres)
	mux.HandleFunc("GET /workout/music/{genre}", s.handleWorkoutMusic)
	mux.HandleFunc("GET /workout/player", s.handlePlayerState)
	mux.HandleFunc("PUT /workout/player/genre", s.handlePlayerGenre)
	mux.HandleFunc("POST /workout/player/toggle", s.handlePlayerToggle)
	mux.HandleFunc("POST /workout/player/next", s.handlePlayerNext)
	mux.HandleFunc("POST /workout/player/previous", s.handlePlayerPrevious)
	mux.HandleFunc("POST /workout/player/tracks/{trackID}/select", s.handlePlayerSelect)

	mux.HandleFunc("GET /dashboard", s.handleDashboard)

	var h http.Handler = mux
	h = s.limiter.Middleware(d.ClientIP, d.OnLimit)(h)
	h = security.Headers(h)
	h = trace.New(d.Logger, d.ClientIP, d.Observe).Wrap(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops background sweeps and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
