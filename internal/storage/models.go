package storage

// Row types mirror the tables one to one.

type Meal struct {
	Seq        int64
	ID         string
	MealType   string
	FoodItem   string
	Calories   float64
	Protein    float64
	Carbs      float64
	Fats       float64
	Date       string
	CreatedAt  string
	Version    int64
	SyncStatus string
}

type Transaction struct {
	Seq         int64
	ID          string
	Type        string
	Category    string
	Amount      string
	Description string
	Date        string
	CreatedAt   string
	Version     int64
	SyncStatus  string
}

type LessonCompletion struct {
	ModuleID    int64
	LessonID    int64
	CompletedAt string
}

type PendingRow struct {
	ID        string
	Version   int64
	CreatedAt string
}
