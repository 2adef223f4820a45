package cli

import (
	"github.com/spf13/cobra"

	"github.com/jose-valero/spinboard/internal/app/service"
)

func newRosterCommand(opts *RootOptions, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List every participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, false, func(s *Services) error {
				roster, err := s.Spin.GetRoster(cmd.Context())
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd).roster(roster)
			})
		},
	}
}

func newLeaderboardCommand(opts *RootOptions, open Opener) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the ranking (wins desc, id asc)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, false, func(s *Services) error {
				board, err := s.Spin.GetLeaderboard(cmd.Context())
				if err != nil {
					return err
				}
				if top > 0 {
					board = service.Top(board, top)
				}
				return newPrinter(opts, cmd).leaderboard(board)
			})
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 0, "only the first n entries (0 = all)")
	return cmd
}

func newSpinCommand(opts *RootOptions, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "spin",
		Short: "Pick a random participant and record the win",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, false, func(s *Services) error {
				res, err := s.Spin.Spin(cmd.Context())
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd).spin(res)
			})
		},
	}
}

func newWinCommand(opts *RootOptions, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "win <employee-id>",
		Short: "Record one win for a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, false, func(s *Services) error {
				board, err := s.Spin.RecordWin(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd).leaderboard(board)
			})
		},
	}
}

func newSeedCommand(opts *RootOptions, open Opener) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample participants (skips names that already exist)",
		Long: `Insert the built-in sample roster, or the participants listed in a YAML file:

  - name: Alice Johnson
    wins: 15
  - name: Bob Smith`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), open, true, func(s *Services) error {
				n, err := s.Employees.Seed(cmd.Context(), in)
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd).message("seed", map[string]any{"inserted": n}, "inserted %d participant(s)", n)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML roster file (default: built-in samples)")
	return cmd
}

func newMigrateCommand(opts *RootOptions, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (postgres driver only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, true, func(s *Services) error {
				return newPrinter(opts, cmd).message("migrate", map[string]any{"driver": s.Driver}, "migrations up to date (%s)", s.Driver)
			})
		},
	}
}
