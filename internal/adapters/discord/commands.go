package discord

import "github.com/bwmarrin/discordgo"

var minTop = 1.0

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "leaderboard",
		Description: "Ranking de wins",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "top",
			Description: "Cuántos mostrar (default 10)",
			MinValue:    &minTop,
			MaxValue:    50,
		}},
	},
	{
		Name:        "roster",
		Description: "Lista de participantes",
	},
	{
		Name:        "spin",
		Description: "Gira la ruleta y suma un win al elegido",
	},
	{
		Name:        "win",
		Description: "Suma un win a mano (admins)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "employee",
			Description: "ID del participante",
			Required:    true,
		}},
	},
}
