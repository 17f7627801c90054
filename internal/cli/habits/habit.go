package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitCmd struct {
	Create   HabitCreateCmd   `cmd:"" help:"Create a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with their streaks."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and all of its completions."`
	Checkoff HabitCheckoffCmd `cmd:"" help:"Record a completion for the current or a given period."`
	Log      HabitLogCmd      `cmd:"" help:"Show the completion history of a habit."`
	Export   HabitExportCmd   `cmd:"" help:"Export habits and completions as JSON or YAML."`
}

type HabitCreateCmd struct {
	Name        string `short:"n" help:"Habit name."`
	Description string `short:"d" help:"What the habit involves."`
	Periodicity string `short:"p" help:"How often the habit is due (daily|weekly)."`
}

func (c *HabitCreateCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Name) == "" || c.Periodicity == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	p, err := models.ParsePeriodicity(c.Periodicity)
	if err != nil {
		return err
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := tr.CreateHabit(c.Name, c.Description, p)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (ID: %s)\n", cli.FormatHabit(habit), habit.ID)
	return nil
}

// prompt asks for the values not given on the command line
func (c *HabitCreateCmd) prompt() error {
	if c.Periodicity == "" {
		c.Periodicity = string(models.Daily)
	}

	var fields []huh.Field
	if strings.TrimSpace(c.Name) == "" {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&c.Description),
		)
	}
	fields = append(fields,
		huh.NewSelect[string]().
			Title("Periodicity").
			Options(
				huh.NewOption("Daily", string(models.Daily)),
				huh.NewOption("Weekly", string(models.Weekly)),
			).
			Value(&c.Periodicity),
	)

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

type HabitListCmd struct {
	Periodicity string `short:"p" help:"Only show habits with this periodicity (daily|weekly)."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	rows, err := tr.StreaksPerHabit()
	if err != nil {
		return err
	}

	var filter models.Periodicity
	if c.Periodicity != "" {
		if filter, err = models.ParsePeriodicity(c.Periodicity); err != nil {
			return err
		}
	}

	due, err := tr.DueToday()
	if err != nil {
		return err
	}
	pending := make(map[string]bool, len(due))
	for _, h := range due {
		pending[h.ID] = true
	}

	shown := 0
	for _, row := range rows {
		if filter != "" && row.Habit.Periodicity != filter {
			continue
		}
		if shown == 0 {
			fmt.Println(cli.HeaderStyle.Render("Habits:"))
		}
		shown++

		mark := cli.SuccessStyle.Render("✓")
		if pending[row.Habit.ID] {
			mark = "○"
		}
		fmt.Printf("  %s %s  %s\n", mark, cli.FormatHabit(row.Habit), cli.FormatStreak(row.Result))
		if row.Habit.Description != "" {
			fmt.Printf("      %s\n", row.Habit.Description)
		}
		fmt.Printf("      %s\n", cli.MutedStyle.Render("id "+row.Habit.ID))
	}

	if shown == 0 {
		fmt.Println("No habits found.")
	}
	return nil
}

type HabitDeleteCmd struct {
	Ref string `arg:"" help:"Habit ID or name."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := tr.Habit(c.Ref)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and all of its completions?", habit.Name)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if _, err := tr.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitCheckoffCmd struct {
	Ref  string `arg:"" help:"Habit ID or name."`
	Date string `help:"Day of the completion (YYYY-MM-DD)." xor:"when"`
	At   string `help:"Exact completion time (RFC3339)." xor:"when"`
}

func (c *HabitCheckoffCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	at := tr.Now()
	switch {
	case c.Date != "":
		if at, err = utils.ParseDateInLocation(c.Date, tr.Location()); err != nil {
			return apperrors.NewConfigurationError("date", c.Date)
		}
	case c.At != "":
		if at, err = utils.ParseTimestamp(c.At, tr.Location()); err != nil {
			return apperrors.NewConfigurationError("timestamp", c.At)
		}
	}

	habit, err := tr.Habit(c.Ref)
	if err != nil {
		return err
	}

	completion, err := tr.RecordCompletion(habit.ID, at)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateCompletion) {
			fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("%s is already completed for %s", habit.Name, periodLabel(habit, at))))
			return nil
		}
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Checked off %s for %s", habit.Name, periodLabel(habit, completion.CompletedAt.In(tr.Location())))))
	return nil
}

// periodLabel names the period t falls in, e.g. 2026-10-18 or 2026-W42
func periodLabel(h models.Habit, t time.Time) string {
	key, err := h.Periodicity.Key(t)
	if err != nil {
		return t.Format(constants.DateFormat)
	}
	return key.String()
}
