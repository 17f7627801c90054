package habits

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
)

// Export is the document written by habit export
type Export struct {
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Timezone   string        `json:"timezone" yaml:"timezone"`
	Habits     []ExportHabit `json:"habits" yaml:"habits"`
}

type ExportHabit struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Periodicity models.Periodicity  `json:"periodicity" yaml:"periodicity"`
	CreatedAt   time.Time           `json:"created_at" yaml:"created_at"`
	Current     int                 `json:"current_streak" yaml:"current_streak"`
	Longest     int                 `json:"longest_streak" yaml:"longest_streak"`
	Completions []models.Completion `json:"completions" yaml:"completions"`
}

type HabitExportCmd struct {
	Format string `short:"f" help:"Output format (json|yaml)." enum:"json,yaml" default:"json"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *HabitExportCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	doc, err := BuildExport(tr)
	if err != nil {
		return err
	}

	var data []byte
	switch c.Format {
	case "yaml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if c.Output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("Exported %d habits to: %s\n", len(doc.Habits), c.Output)
	return nil
}

// BuildExport snapshots every habit with its streaks and completions
func BuildExport(tr *tracker.Tracker) (Export, error) {
	histories, err := tr.Histories()
	if err != nil {
		return Export{}, err
	}
	rows, err := analytics.StreaksPerHabit(histories, tr.Now())
	if err != nil {
		return Export{}, err
	}

	doc := Export{
		ExportedAt: tr.Now(),
		Timezone:   tr.Location().String(),
		Habits:     make([]ExportHabit, 0, len(histories)),
	}
	for i, h := range histories {
		completions := h.Completions
		if completions == nil {
			completions = []models.Completion{}
		}
		doc.Habits = append(doc.Habits, ExportHabit{
			ID:          h.Habit.ID,
			Name:        h.Habit.Name,
			Description: h.Habit.Description,
			Periodicity: h.Habit.Periodicity,
			CreatedAt:   h.Habit.CreatedAt,
			Current:     rows[i].Result.Current,
			Longest:     rows[i].Result.Longest,
			Completions: completions,
		})
	}
	return doc, nil
}
