package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/jose-valero/spinboard/internal/app/service"
	"github.com/jose-valero/spinboard/internal/domain"
)

// SpinAPI: lo que el bot necesita del SpinService.
type SpinAPI interface {
	GetRoster(ctx context.Context) ([]domain.Employee, error)
	GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
	RecordWin(ctx context.Context, id string) ([]domain.LeaderboardEntry, error)
	Spin(ctx context.Context) (service.SpinResult, error)
}

type Router struct {
	s       *discordgo.Session
	guildID string
	log     *zap.Logger

	spin         SpinAPI
	adminRoleIDs []string
	spinLimiter  *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	spin SpinAPI,
	adminRoleIDs []string,
	spinCooldown time.Duration,
	log *zap.Logger,
) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		s:            s,
		guildID:      guildID,
		log:          log.With(zap.String("component", "discord")),
		spin:         spin,
		adminRoleIDs: adminRoleIDs,
		spinLimiter:  newUserLimiter(spinCooldown),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if ic.GuildID != r.guildID {
			return
		}
		r.handleSlashCommand(s, ic)
	})
}
