package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jose-valero/spinboard/internal/app/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Services es lo que los subcomandos usan del core.
type Services struct {
	Driver    string
	Spin      *service.SpinService
	Employees *service.EmployeeService
}

// Opener abre el store configurado (aplicando migraciones si migrate es true)
// y arma los servicios. close siempre es no-nil.
type Opener func(ctx context.Context, migrate bool) (svc *Services, close func() error, err error)

// NewRootCommand creates the root command for spinctl.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "spinctl",
		Short: "spinctl - spin the wheel from the terminal",
		Long:  "Admin CLI for the spinboard roster: read the leaderboard, spin, record wins and seed data.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newRosterCommand(opts, open))
	cmd.AddCommand(newLeaderboardCommand(opts, open))
	cmd.AddCommand(newSpinCommand(opts, open))
	cmd.AddCommand(newWinCommand(opts, open))
	cmd.AddCommand(newSeedCommand(opts, open))
	cmd.AddCommand(newMigrateCommand(opts, open))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withServices abre, corre fn y cierra.
func withServices(ctx context.Context, open Opener, migrate bool, fn func(*Services) error) error {
	svc, closeFn, err := open(ctx, migrate)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = closeFn() }()
	return fn(svc)
}
