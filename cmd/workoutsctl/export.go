package main

import (
	"fmt"
	"io"
	"os"

	"github.com/2beens/workouts/internal/workouts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all workouts as CSV, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			pool, cfg, err := opts.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("create output file: %w", createErr)
				}
				defer func() {
					if cErr := f.Close(); cErr != nil && err == nil {
						err = cErr
					}
				}()
				w = f
			}

			service := workouts.NewService(workouts.NewRepo(pool), cfg.WeeklyGoalMinutes)
			count, err := service.Export(ctx, w)
			if err != nil {
				return err
			}

			if output != "" && output != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✔ exported %d workouts to %s", count, output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")

	return cmd
}
