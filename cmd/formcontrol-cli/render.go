package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func renderCmd(app *appOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the control markup",
		Long: `Build the control from the OpenAPI operation and its configuration, then
print the rendered markup or write it to --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := app.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rt, _, err := app.runtime(logger, nil)
			if err != nil {
				return err
			}
			ctrl, err := app.control(cmd.Context(), rt)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := ctrl.Render(cmd.Context(), &buf); err != nil {
				return err
			}
			if output == "" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")

	return cmd
}
