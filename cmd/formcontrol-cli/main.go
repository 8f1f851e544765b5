package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &appOptions{}

	rootCmd := &cobra.Command{
		Use:   "formcontrol",
		Short: "Render, serve and fill configured form controls",
		Long: `formcontrol builds a form control from an OpenAPI operation and a
directory of YAML/JSON control configurations.

  render  print the control markup
  serve   expose the control over HTTP with ajax snippet reloads
  fill    complete the form interactively in the terminal`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.bind(rootCmd)

	rootCmd.AddCommand(
		renderCmd(app),
		serveCmd(app),
		fillCmd(app),
		versionCmd(),
	)

	return rootCmd
}
