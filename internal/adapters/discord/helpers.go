package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
)

func fmtRemain(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
	}
	return "", false
}

func optInt(ic *discordgo.InteractionCreate, name string) (int, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return 0, false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return int(o.IntValue()), true
		}
	}
	return 0, false
}

func medal(pos int) string {
	switch pos {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("`#%d`", pos)
}

// Discord rechaza content de más de 2000 caracteres.
const maxMessageLen = 2000

func formatLeaderboard(board []domain.LeaderboardEntry, n int) string {
	return formatLeaderboardWith("", board, n)
}

// formatLeaderboardWith antepone prefix y recorta el ranking para que el total entre en un mensaje.
func formatLeaderboardWith(prefix string, board []domain.LeaderboardEntry, n int) string {
	if len(board) == 0 {
		return prefix + "📭 No hay participantes todavía."
	}
	top := service.Top(board, n)

	lines := make([]string, 0, len(top))
	for i, e := range top {
		lines = append(lines, fmt.Sprintf("%s **%s** · %d %s", medal(i+1), e.Name, e.Wins, plural(e.Wins, "win", "wins")))
	}
	return prefix + fitLines(maxMessageLen-len(prefix), "🏆 **Leaderboard**", lines, len(board)-len(top))
}

// formatRoster: alfabético, con el id para poder usar /win.
func formatRoster(roster []domain.Employee) string {
	if len(roster) == 0 {
		return "📭 No hay participantes todavía."
	}
	sorted := append([]domain.Employee(nil), roster...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	lines := make([]string, 0, len(sorted))
	for _, e := range sorted {
		lines = append(lines, fmt.Sprintf("• %s `%s`", e.Name, e.ID))
	}
	return fitLines(maxMessageLen, fmt.Sprintf("👥 **Roster** (%d)", len(sorted)), lines, 0)
}

func formatSpin(winner domain.Employee, board []domain.LeaderboardEntry, n int) string {
	prefix := fmt.Sprintf("🎰 Ganó **%s** (%d %s)\n\n", winner.Name, winner.Wins, plural(winner.Wins, "win", "wins"))
	return formatLeaderboardWith(prefix, board, n)
}

// fitLines junta header y lines (una por renglón) sin pasar de limit bytes. Lo que no entra,
// más omitted, se resume en "… y N más".
func fitLines(limit int, header string, lines []string, omitted int) string {
	reserve := 1 + len(moreTail(len(lines)+omitted))

	var b strings.Builder
	b.WriteString(header)
	shown := 0
	for _, l := range lines {
		if b.Len()+1+len(l)+reserve > limit {
			break
		}
		b.WriteString("\n")
		b.WriteString(l)
		shown++
	}
	if rest := len(lines) - shown + omitted; rest > 0 {
		b.WriteString("\n")
		b.WriteString(moreTail(rest))
	}
	return b.String()
}

func moreTail(n int) string { return fmt.Sprintf("… y %d más", n) }

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
