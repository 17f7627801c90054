// Package insights holds the analytics commands.
package insights

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type AnalyticsCmd struct {
	Period         PeriodCmd         `cmd:"" help:"List habits with the given periodicity."`
	Longest        LongestCmd        `cmd:"" help:"Show the longest streak of one habit."`
	LongestOverall LongestOverallCmd `cmd:"" name:"longest-overall" help:"Show the habit with the longest streak."`
	Streaks        StreaksCmd        `cmd:"" help:"Show current and longest streaks of every habit."`
	DueToday       DueTodayCmd       `cmd:"" name:"due-today" help:"List habits not yet completed in the current period."`
	AtRisk         AtRiskCmd         `cmd:"" name:"at-risk" help:"List live streaks that break unless completed this period."`
}

type PeriodCmd struct {
	Periodicity string `arg:"" help:"daily or weekly." enum:"daily,weekly"`
}

func (c *PeriodCmd) Run(ctx *cli.Context) error {
	p, err := models.ParsePeriodicity(c.Periodicity)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habits, err := tr.FilterByPeriodicity(p)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Printf("No %s habits found.\n", p)
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("%s habits:", p)))
	for _, h := range habits {
		fmt.Printf("  %s\n", h.Name)
	}
	return nil
}

type LongestCmd struct {
	Ref string `arg:"" help:"Habit ID or name."`
}

func (c *LongestCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := tr.Habit(c.Ref)
	if err != nil {
		return err
	}
	n, err := tr.LongestStreak(habit.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s: longest streak %d %s\n", habit.Name, n, units(habit.Periodicity, n))
	return nil
}

type LongestOverallCmd struct{}

func (c *LongestOverallCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	leader, err := tr.LongestOverall()
	if err != nil {
		return err
	}
	if !leader.Found {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("%s has the longest streak: %d %s\n",
		leader.Habit.Name, leader.Streak, units(leader.Habit.Periodicity, leader.Streak))
	return nil
}

type StreaksCmd struct{}

func (c *StreaksCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	rows, err := tr.StreaksPerHabit()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("  %-24s %-8s %7s %7s %6s", "HABIT", "EVERY", "CURRENT", "LONGEST", "TOTAL")))
	for _, r := range rows {
		fmt.Printf("  %-24s %-8s %7d %7d %6d\n",
			r.Habit.Name, r.Habit.Periodicity.Unit(), r.Result.Current, r.Result.Longest, r.Result.Total)
	}
	return nil
}

type DueTodayCmd struct{}

func (c *DueTodayCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	due, err := tr.DueToday()
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Println(cli.SuccessStyle.Render("✓ Everything is done for now."))
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Due:"))
	for _, h := range due {
		fmt.Printf("  ○ %s\n", cli.FormatHabit(h))
	}
	return nil
}

type AtRiskCmd struct{}

func (c *AtRiskCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	rows, err := tr.AtRisk()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No streaks at risk.")
		return nil
	}

	fmt.Println(cli.WarningStyle.Render("At risk:"))
	for _, r := range rows {
		fmt.Printf("  ⚠ %s  streak %d, complete it this %s\n",
			cli.FormatHabit(r.Habit), r.Result.Current, r.Habit.Periodicity.Unit())
	}
	return nil
}

func units(p models.Periodicity, n int) string {
	if n == 1 {
		return p.Unit()
	}
	return p.Unit() + "s"
}
