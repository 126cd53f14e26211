package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/2beens/workouts/internal/workouts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newWeekCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the minutes trained this week against the weekly goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, cfg, err := opts.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			service := workouts.NewService(workouts.NewRepo(pool), cfg.WeeklyGoalMinutes)
			progress, err := service.WeeklyProgress(ctx)
			if err != nil {
				return err
			}

			printProgress(cmd.OutOrStdout(), progress)
			return nil
		},
	}
}

const progressBarWidth = 30

func printProgress(w io.Writer, progress workouts.WeeklyProgress) {
	filled := progress.Percent * progressBarWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	paint := color.New(color.FgYellow).SprintFunc()
	if progress.Percent >= 100 {
		paint = color.New(color.FgGreen, color.Bold).SprintFunc()
	}

	fmt.Fprintf(w, "week of %s\n", progress.WeekStart.Format("Mon 2 Jan 2006"))
	fmt.Fprintf(w, "%s %s\n", paint(bar), paint(fmt.Sprintf("%d%%", progress.Percent)))
	fmt.Fprintf(w, "%d / %d minutes\n", progress.Minutes, progress.GoalMinutes)
}
