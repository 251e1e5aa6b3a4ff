// Package learning tracks lesson completion inside learning modules.
//
// A module's progress is never stored: it is computed from the lesson list,
// so completion and progress cannot disagree.
package learning

import (
	"encoding/json"
	"math"
)

type (
	Lesson struct {
		ID        int    `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}

	Module struct {
		ID          int      `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Duration    string   `json:"duration"`
		Lessons     []Lesson `json:"lessons"`
	}

	// Completion identifies one completed lesson, as persisted.
	Completion struct {
		ModuleID int
		LessonID int
	}
)

// CompletedCount returns how many lessons are completed.
func (m Module) CompletedCount() int {
	n := 0
	for _, l := range m.Lessons {
		if l.Completed {
			n++
		}
	}
	return n
}

// Progress returns round(100 * completed / total). A module without lessons
// is at 0%.
func (m Module) Progress() int {
	if len(m.Lessons) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(m.CompletedCount()) / float64(len(m.Lessons))))
}

// Lesson returns the lesson with id.
func (m Module) Lesson(id int) (Lesson, bool) {
	for _, l := range m.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

func (m Module) clone() Module {
	m.Lessons = append([]Lesson(nil), m.Lessons...)
	return m
}

// MarshalJSON adds the derived progress to the encoded module.
func (m Module) MarshalJSON() ([]byte, error) {
	type plain Module
	return json.Marshal(struct {
		plain
		Progress int `json:"progress"`
	}{plain: plain(m), Progress: m.Progress()})
}
