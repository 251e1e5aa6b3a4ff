package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"successpath/internal/services"
)

// --- modules ---

type modulesCmd struct {
	lessons bool
}

func (*modulesCmd) Name() string     { return "modules" }
func (*modulesCmd) Synopsis() string { return "list learning modules and their progress" }
func (*modulesCmd) Usage() string {
	return `modules [-l]

  Lists the learning modules with their progress. With -l, every lesson is
  listed under its module.
`
}

func (c *modulesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.lessons, "l", false, "List lessons")
}

func (c *modulesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger) error {
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		for _, m := range l.Modules() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%d%%\n",
				m.ID, m.Title, m.Category, m.CompletedCount(), len(m.Lessons), m.Progress())
			if !c.lessons {
				continue
			}
			for _, lesson := range m.Lessons {
				mark := " "
				if lesson.Completed {
					mark = "x"
				}
				fmt.Fprintf(w, "\t  [%s] %d\t%s\t\t\n", mark, lesson.ID, lesson.Title)
			}
		}
		return w.Flush()
	})
}

// --- complete-lesson ---

type completeLessonCmd struct {
	module int
	lesson int
}

func (*completeLessonCmd) Name() string     { return "complete-lesson" }
func (*completeLessonCmd) Synopsis() string { return "mark a lesson as completed" }
func (*completeLessonCmd) Usage() string {
	return `complete-lesson -m <module id> -l <lesson id>

  Marks a lesson as completed. Completing a lesson twice is not an error.
`
}

func (c *completeLessonCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.module, "m", 0, "Module id")
	f.IntVar(&c.lesson, "l", 0, "Lesson id")
}

func (c *completeLessonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.module == 0 || c.lesson == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *services.Ledger) error {
		m, ok := l.Module(c.module)
		if !ok {
			return fmt.Errorf("unknown module %d", c.module)
		}
		if _, ok := m.Lesson(c.lesson); !ok {
			return fmt.Errorf("module %d has no lesson %d", c.module, c.lesson)
		}
		changed, err := l.CompleteLesson(ctx, c.module, c.lesson)
		if err != nil {
			return err
		}
		m, _ = l.Module(c.module)
		if !changed {
			fmt.Fprintf(os.Stderr, "Lesson %d of %q was already completed\n", c.lesson, m.Title)
		}
		fmt.Fprintf(stdout, "%s: %d%% complete\n", m.Title, m.Progress())
		return nil
	})
}
