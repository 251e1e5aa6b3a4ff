package learning

// DefaultCatalog returns the built-in modules with no lesson completed.
func DefaultCatalog() []Module {
	return []Module{
		{
			ID:          1,
			Title:       "Financial Freedom Basics",
			Description: "Learn the fundamentals of personal finance and wealth building.",
			Category:    "Finance",
			Duration:    "2 hours",
			Lessons: []Lesson{
				{ID: 1, Title: "Budgeting Basics"},
				{ID: 2, Title: "Saving Strategies"},
				{ID: 3, Title: "Investment Fundamentals"},
				{ID: 4, Title: "Debt Management"},
			},
		},
		{
			ID:          2,
			Title:       "Productivity Mastery",
			Description: "Master techniques to boost your productivity and achieve more.",
			Category:    "Productivity",
			Duration:    "1.5 hours",
			Lessons: []Lesson{
				{ID: 1, Title: "Time Management"},
				{ID: 2, Title: "Goal Setting"},
				{ID: 3, Title: "Focus Techniques"},
			},
		},
	}
}
