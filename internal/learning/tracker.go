package learning

// Tracker owns the module list.
type Tracker struct {
	modules []Module
}

// NewTracker copies modules so the caller's slices are never mutated.
func NewTracker(modules []Module) *Tracker {
	t := &Tracker{modules: make([]Module, 0, len(modules))}
	for _, m := range modules {
		t.modules = append(t.modules, m.clone())
	}
	return t
}

// CompleteLesson marks a lesson as completed. It reports whether anything
// changed: unknown module or lesson ids and already completed lessons are
// no-ops.
func (t *Tracker) CompleteLesson(moduleID, lessonID int) bool {
	for i := range t.modules {
		if t.modules[i].ID != moduleID {
			continue
		}
		lessons := t.modules[i].Lessons
		for j := range lessons {
			if lessons[j].ID != lessonID {
				continue
			}
			if lessons[j].Completed {
				return false
			}
			lessons[j].Completed = true
			return true
		}
		return false
	}
	return false
}

// Restore marks persisted completions, skipping any that no longer match.
func (t *Tracker) Restore(done []Completion) {
	for _, c := range done {
		t.CompleteLesson(c.ModuleID, c.LessonID)
	}
}

// Modules returns deep copies of every module in catalog order.
func (t *Tracker) Modules() []Module {
	out := make([]Module, 0, len(t.modules))
	for _, m := range t.modules {
		out = append(out, m.clone())
	}
	return out
}

// Module returns a copy of the module with id.
func (t *Tracker) Module(id int) (Module, bool) {
	for _, m := range t.modules {
		if m.ID == id {
			return m.clone(), true
		}
	}
	return Module{}, false
}
