package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcontrol/pkg/renderers/tui"
)

func fillCmd(app *appOptions) *cobra.Command {
	var (
		format   string
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively",
		Long: `Prompt for every field, submit the answers through the control and print
them once the form validates. Invalid answers are asked again, up to
--attempts times. Configured events are dispatched as usual.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if attempts < 1 {
				return errors.New("--attempts must be at least 1")
			}
			outputFormat := tui.OutputFormat(strings.ToLower(strings.TrimSpace(format)))

			logger, err := app.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rt, _, err := app.runtime(logger, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ctrl, err := app.control(ctx, rt)
			if err != nil {
				return err
			}
			f, err := ctrl.Form(ctx)
			if err != nil {
				return err
			}

			filler := tui.NewFiller(tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())))
			for attempt := 1; attempt <= attempts; attempt++ {
				values, err := filler.Fill(ctx, f)
				if err != nil {
					return err
				}
				if err := ctrl.Submit(ctx, values); err != nil {
					return err
				}
				if !f.IsValid() {
					logger.Debug("form invalid", "attempt", attempt, "errors", f.Errors())
					continue
				}
				out, err := tui.Encode(f.Values(), outputFormat)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			return fmt.Errorf("form still invalid after %d attempts: %s", attempts, strings.Join(f.Errors(), "; "))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "how many times invalid answers are asked again")

	return cmd
}
