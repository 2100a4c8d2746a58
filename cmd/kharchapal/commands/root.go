package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"kharchapal/internal/config"
	"kharchapal/internal/service"
	"kharchapal/internal/store"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kharchapal",
	Short: "KharchaPal - Family Expense Tracker",
	Long: `KharchaPal tracks a family's expenses, income, IOUs, budgets, accounts
and savings goals. Everything is stored on this device.

Create or join a family first, then record transactions against it.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		printBanner()
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func printBanner() {
	figure.NewColorFigure("KharchaPal", "puffy", "green", true).Print()
	fmt.Println()
}

// session is an open store with the restored application state
type session struct {
	cfg *config.Config
	svc *service.SessionService
	app *service.AppState
}

// withSession opens the store, restores the saved session and runs fn
func withSession(fn func(ctx context.Context, cmd *cobra.Command, s *session) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg := config.Load()
		svc := service.NewSessionService(store.NewOpener(cfg))
		app, err := svc.Start(ctx)
		if errors.Is(err, service.ErrResetRequired) {
			fmt.Println("Local data could not be opened and has been reset. Please run the command again.")
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to open local data: %w", err)
		}
		defer svc.Close()

		return fn(ctx, cmd, &session{cfg: cfg, svc: svc, app: app})
	}
}

// withFamily is withSession for commands that need an active family
func withFamily(fn func(ctx context.Context, cmd *cobra.Command, s *session) error) func(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cmd *cobra.Command, s *session) error {
		if s.app.Snapshot().CurrentFamily == nil {
			fmt.Println("No active family. Run 'kharchapal family create' or 'kharchapal family join' first.")
			return service.ErrNoActiveFamily
		}
		return fn(ctx, cmd, s)
	})
}
