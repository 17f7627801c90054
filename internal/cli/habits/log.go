package habits

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitLogCmd struct {
	Ref   string `arg:"" help:"Habit ID or name."`
	Limit int    `short:"l" help:"Show only the most recent N completions (0 for all)." default:"0"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	history, err := tr.History(c.Ref)
	if err != nil {
		return err
	}
	result, err := tr.Streak(history.Habit.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeaderStyle.Render(cli.FormatHabit(history.Habit)))
	fmt.Printf("  %s\n", cli.FormatStreak(result))

	completions := history.Completions
	if len(completions) == 0 {
		fmt.Println("  No completions yet.")
		return nil
	}
	if c.Limit > 0 && len(completions) > c.Limit {
		completions = completions[len(completions)-c.Limit:]
	}

	for _, comp := range completions {
		fmt.Printf("  %-10s  %s\n",
			periodLabel(history.Habit, comp.CompletedAt),
			utils.FormatPeriodLabel(comp.CompletedAt, tr.Location()))
	}
	return nil
}
