package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/server"
	"github.com/taskpilot/taskpilot/internal/svc"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskpilot",
		Short: "Taskpilot is a multi-user task manager with a conversational assistant",
	}
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore error if not found)
			_ = godotenv.Load()

			c, err := config.Load()
			if err != nil {
				return err
			}

			svcCtx, err := svc.NewServiceContext(c)
			if err != nil {
				return err
			}
			defer svcCtx.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, c, svcCtx)
		},
	}
}
