package http

import (
	"log/slog"
	"net/http"
	"strings"

	"successpath/internal/core"
	"successpath/internal/log"
	"successpath/internal/nutrition"
)

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := parseDateQuery(q, "date", s.today())
	if err != nil {
		BadRequestError("invalid date: use YYYY-MM-DD").Write(w)
		return
	}
	var filter *nutrition.MealType
	if v := strings.TrimSpace(q.Get("meal_type")); v != "" && !strings.EqualFold(v, "all") {
		mt, ok := nutrition.ParseMealType(v)
		if !ok {
			BadRequestError("unknown meal type '" + v + "'").Write(w)
			return
		}
		filter = &mt
	}
	meals := s.ledger.ListMeals(date, filter)
	if meals == nil {
		meals = []nutrition.MealEntry{}
	}
	NewJSONResponse(meals).Write(w)
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in := nutrition.MealInput{
		MealType: p.Get("meal_type"),
		FoodItem: p.Get("food_item"),
		Calories: p.Get("calories"),
		Protein:  p.Get("protein"),
		Carbs:    p.Get("carbs"),
		Fats:     p.Get("fats"),
		Date:     p.Get("date"),
	}
	if in.FoodItem == "" {
		UnprocessableEntityError("food_item is required").Write(w)
		return
	}
	if in.Date != "" {
		if _, err := core.ParseDate(in.Date); err != nil {
			UnprocessableEntityError("invalid date: use YYYY-MM-DD").Write(w)
			return
		}
	}

	e, err := s.ledger.AddMeal(r.Context(), in)
	if err != nil {
		log.FromContext(r.Context()).Failure(r.Context(), "Meal save failed", log.OpCreate, err)
		InternalServerError("failed to save meal").Write(w)
		return
	}
	slog.InfoContext(r.Context(), "Meal recorded",
		log.FieldMealID, e.ID,
		log.FieldMealType, e.MealType,
		log.FieldCalories, e.Calories)
	NewJSONResponse(e).Status(http.StatusCreated).Write(w)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.ledger.DeleteMeal(r.Context(), id)
	if err != nil {
		log.FromContext(r.Context()).Failure(r.Context(), "Meal delete failed", log.OpDelete, err, log.FieldMealID, id)
		InternalServerError("failed to delete meal").Write(w)
		return
	}
	if !removed {
		NotFoundError("meal not found").Write(w)
		return
	}
	NewJSONResponse(nil).Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleDailyMacros(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r.URL.Query(), "date", s.today())
	if err != nil {
		BadRequestError("invalid date: use YYYY-MM-DD").Write(w)
		return
	}
	NewJSONResponse(s.ledger.DailyMacros(date)).Write(w)
}

func (s *Server) handleDietPlan(w http.ResponseWriter, r *http.Request) {
	if s.diet == nil {
		ServiceUnavailableError("diet planner not configured").Write(w)
		return
	}
	plan, err := s.diet.DietPlan(r.Context(), r.URL.Query().Get("goals"))
	if err != nil {
		collaboratorError(r.Context(), err).Write(w)
		return
	}
	NewJSONResponse(plan).Write(w)
}
