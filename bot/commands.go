package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"wordler/bot/common"
	"wordler/service"

	"github.com/bwmarrin/discordgo"
)

const (
	commandChannel    = "wordle-channel"
	commandAutoNotify = "wordle-autonotify"
	commandStats      = "wordle-stats"
	commandTop        = "wordle-top"

	defaultTopLimit = 10
)

var adminPermission int64 = discordgo.PermissionAdministrator

// commandDefinitions lists the slash commands the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	dmDisabled := false
	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandChannel,
			Description:              "Choose the channel daily results are posted to",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &dmDisabled,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Result channel, leave empty to stop posting",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					Required:     false,
				},
			},
		},
		{
			Name:                     commandAutoNotify,
			Description:              "Turn automatic result posting on or off",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &dmDisabled,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Post results automatically",
					Required:    true,
				},
			},
		},
		{
			Name:        commandStats,
			Description: "Show your Wordle statistics",
		},
		{
			Name:        commandTop,
			Description: "Show the Wordle leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "Number of players to show",
					MinValue:    floatPtr(1),
					MaxValue:    25,
					Required:    false,
				},
			},
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case commandChannel:
		b.handleChannelCommand(s, i)
	case commandAutoNotify:
		b.handleAutoNotifyCommand(s, i)
	case commandStats:
		b.handleStatsCommand(s, i)
	case commandTop:
		b.handleTopCommand(s, i)
	}
}

// requireAdminGuild resolves the guild of an admin command, answering the
// interaction itself when the caller is not allowed
func (b *Bot) requireAdminGuild(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	if i.GuildID == "" {
		common.RespondWithError(s, i, "This command can only be used in a server")
		return 0, false
	}
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return 0, false
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return 0, false
	}
	return guildID, true
}

func (b *Bot) handleChannelCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, ok := b.requireAdminGuild(s, i)
	if !ok {
		return
	}

	var channelID *int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "channel" {
			continue
		}
		id, err := strconv.ParseInt(opt.ChannelValue(nil).ID, 10, 64)
		if err != nil {
			log.Errorf("Failed to parse channel ID: %v", err)
			common.RespondWithError(s, i, "Invalid channel selected")
			return
		}
		channelID = &id
	}

	ctx := context.Background()
	if err := b.ensureDestination(ctx, s, i, guildID); err != nil {
		log.Errorf("Failed to register destination %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	if _, err := b.destinations.SetResultChannel(ctx, guildID, channelID); err != nil {
		log.Errorf("Failed to set result channel: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	message := "Results will no longer be posted"
	if channelID != nil {
		message = fmt.Sprintf("Results will be posted in <#%d>", *channelID)
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (b *Bot) handleAutoNotifyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, ok := b.requireAdminGuild(s, i)
	if !ok {
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please choose whether results are posted")
		return
	}
	enabled := options[0].BoolValue()

	ctx := context.Background()
	if err := b.ensureDestination(ctx, s, i, guildID); err != nil {
		log.Errorf("Failed to register destination %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	dest, err := b.destinations.SetAutoNotify(ctx, guildID, enabled)
	if err != nil {
		log.Errorf("Failed to set auto notify: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	message := "Automatic result posting disabled"
	if enabled {
		message = "Automatic result posting enabled"
		if !dest.HasResultChannel() {
			message += ". Pick a channel with /" + commandChannel
		}
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// ensureDestination registers the guild when the bot missed its GuildCreate
func (b *Bot) ensureDestination(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) error {
	_, err := b.destinations.Get(ctx, guildID)
	if err == nil || !errors.Is(err, service.ErrNotFound) {
		return err
	}

	name := ""
	if guild, err := s.State.Guild(i.GuildID); err == nil {
		name = guild.Name
	}
	_, err = b.destinations.Register(ctx, guildID, name, nil)
	return err
}

func (b *Bot) handleStatsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	playerID, err := strconv.ParseInt(common.InvokerID(i), 10, 64)
	if err != nil {
		log.Errorf("Failed to parse user ID: %v", err)
		common.RespondWithError(s, i, "Failed to load statistics")
		return
	}

	stats, err := b.stats.GetOrCreateStats(context.Background(), playerID)
	if err != nil {
		log.Errorf("Failed to get stats for %d: %v", playerID, err)
		common.RespondWithError(s, i, "Failed to load statistics")
		return
	}

	if err := common.RespondWithEmbed(s, i, buildStatsEmbed(invokerName(i), stats), true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (b *Bot) handleTopCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	limit := defaultTopLimit
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	entries, err := b.stats.TopPlayers(context.Background(), limit)
	if err != nil {
		log.Errorf("Failed to get leaderboard: %v", err)
		common.RespondWithError(s, i, "Failed to load the leaderboard")
		return
	}

	if err := common.RespondWithEmbed(s, i, buildLeaderboardEmbed(entries, b.config.LeaderboardMinGames), false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// invokerName prefers the server nickname over the global name
func invokerName(i *discordgo.InteractionCreate) string {
	if i.Member != nil {
		if i.Member.Nick != "" {
			return i.Member.Nick
		}
		if i.Member.User != nil {
			return userName(i.Member.User)
		}
	}
	if i.User != nil {
		return userName(i.User)
	}
	return "Unknown User"
}

func userName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
