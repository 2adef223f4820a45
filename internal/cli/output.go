package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
)

// printer escribe en text (tablas) o json según --format.
type printer struct {
	json bool
	w    io.Writer
}

func newPrinter(opts *RootOptions, cmd *cobra.Command) *printer {
	return &printer{json: opts.Format == "json", w: cmd.OutOrStdout()}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) roster(roster []domain.Employee) error {
	if p.json {
		return p.encode(roster)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tWINS")
	for _, e := range roster {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", e.ID, e.Name, e.Wins)
	}
	return tw.Flush()
}

func (p *printer) leaderboard(board []domain.LeaderboardEntry) error {
	if p.json {
		return p.encode(board)
	}
	if len(board) == 0 {
		_, err := fmt.Fprintln(p.w, "no participants yet")
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tWINS\tID")
	for i, e := range board {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i+1, e.Name, e.Wins, e.ID)
	}
	return tw.Flush()
}

func (p *printer) spin(res service.SpinResult) error {
	if p.json {
		return p.encode(res)
	}
	if _, err := fmt.Fprintf(p.w, "winner: %s (%d wins)\n\n", res.Winner.Name, res.Winner.Wins); err != nil {
		return err
	}
	return p.leaderboard(res.Leaderboard)
}

// message: data va como json, el texto formateado va en modo text.
func (p *printer) message(kind string, data map[string]any, format string, args ...any) error {
	if p.json {
		return p.encode(map[string]any{"status": "ok", "command": kind, "data": data})
	}
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}
