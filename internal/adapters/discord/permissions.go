package discord

import "github.com/bwmarrin/discordgo"

func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil {
		ReplyEphemeral(s, ic, "🔒 Este comando sólo funciona dentro del servidor.")
		return false
	}

	// Owner
	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member.User != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}

	// Administrator bit
	roles, _ := s.GuildRoles(ic.GuildID)
	if isAdministrator(ic.Member.Roles, roles) {
		return true
	}

	// Roles explícitos del bot
	if hasAnyRole(ic.Member.Roles, r.adminRoleIDs) {
		return true
	}

	ReplyEphemeral(s, ic, "🔒 No tienes permisos para esta acción.")
	return false
}

func isAdministrator(memberRoles []string, roles []*discordgo.Role) bool {
	var perms int64
	for _, rid := range memberRoles {
		for _, ro := range roles {
			if ro.ID == rid {
				perms |= ro.Permissions
			}
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func hasAnyRole(memberRoles, want []string) bool {
	if len(want) == 0 {
		return false
	}
	has := make(map[string]struct{}, len(memberRoles))
	for _, rid := range memberRoles {
		has[rid] = struct{}{}
	}
	for _, w := range want {
		if _, ok := has[w]; ok {
			return true
		}
	}
	return false
}
