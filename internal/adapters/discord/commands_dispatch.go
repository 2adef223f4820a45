// logica de InteractionApplicationCommand: parsea la interaccion y despacha al SpinService
package discord

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/domain"
)

const defaultTop = 10

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	uid := userID(ic)
	r.log.Info("[discord] cmd", zap.String("cmd", cmd.Name), zap.String("by", uid), zap.String("guild", ic.GuildID))

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("[discord] panic in cmd", zap.String("cmd", cmd.Name), zap.Any("panic", rec))
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {

	case "leaderboard":
		defer step(r.log, "cmd.leaderboard")()
		n := defaultTop
		if v, ok := optInt(ic, "top"); ok && v > 0 {
			n = v
		}
		board, err := r.spin.GetLeaderboard(ctx)
		if err != nil {
			ReplyEphemeral(s, ic, errMessage("No pude leer el ranking", err))
			return
		}
		ReplyEphemeral(s, ic, formatLeaderboard(board, n))

	case "roster":
		roster, err := r.spin.GetRoster(ctx)
		if err != nil {
			ReplyEphemeral(s, ic, errMessage("No pude leer el roster", err))
			return
		}
		ReplyEphemeral(s, ic, formatRoster(roster))

	case "spin":
		defer step(r.log, "cmd.spin")()
		ReplyEphemeral(s, ic, r.spinFor(ctx, uid))

	case "win":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		id, _ := optStr(ic, "employee")
		ReplyEphemeral(s, ic, r.recordWin(ctx, strings.TrimSpace(id)))
	}
}

// spinFor aplica el cooldown por usuario. Si el giro falla la ventana se libera para que
// pueda volver a intentar enseguida.
func (r *Router) spinFor(ctx context.Context, uid string) string {
	if ok, wait := r.spinLimiter.Allow(uid); !ok {
		return "⏳ Esperá " + fmtRemain(wait) + " antes de volver a girar."
	}
	res, err := r.spin.Spin(ctx)
	if err != nil {
		r.spinLimiter.Release(uid)
		r.log.Warn("[discord] spin failed", zap.String("by", uid), zap.Error(err))
		return errMessage("No se pudo girar", err)
	}
	return formatSpin(res.Winner, res.Leaderboard, defaultTop)
}

func (r *Router) recordWin(ctx context.Context, id string) string {
	board, err := r.spin.RecordWin(ctx, id)
	if err != nil {
		return errMessage("No se pudo registrar el win", err)
	}
	return formatLeaderboardWith("✅ Win registrado.\n", board, defaultTop)
}

// errMessage traduce los errores de dominio a algo legible para el usuario.
func errMessage(prefix string, err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyRoster):
		return "📭 No hay participantes todavía."
	case errors.Is(err, domain.ErrNotFound):
		return "🔎 Ese participante ya no existe, probá girar de nuevo."
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "⚠️ " + prefix + ": el almacenamiento no responde, intentá más tarde."
	}
	return "⚠️ " + prefix + "."
}

func userID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}
