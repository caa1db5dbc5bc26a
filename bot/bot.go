package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"wordler/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token        string
	PollInterval time.Duration
	// LeaderboardMinGames is shown in the /wordle-top footer
	LeaderboardMinGames int
	// SendRate caps channel posts per second across all guilds
	SendRate  float64
	SendBurst int
}

type Bot struct {
	config        Config
	session       *discordgo.Session
	destinations service.DestinationService
	stats        service.StatsService
	delivery     *Deliverer
	cancel       context.CancelFunc
	done         chan struct{}
}

func New(config Config, destinations service.DestinationService, notifications NotificationSource, stats service.StatsService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	if config.SendRate <= 0 {
		config.SendRate = 1
	}
	if config.SendBurst <= 0 {
		config.SendBurst = 1
	}

	bot := &Bot{
		config:       config,
		session:      dg,
		destinations: destinations,
		stats:        stats,
		delivery:     NewDeliverer(notifications, dg, rate.NewLimiter(rate.Limit(config.SendRate), config.SendBurst)),
		done:         make(chan struct{}),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleGuildDelete)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bot.cancel = cancel
	go func() {
		defer close(bot.done)
		bot.delivery.Run(ctx, config.PollInterval)
	}()

	return bot, nil
}

// Close stops the delivery loop and disconnects from the gateway
func (b *Bot) Close() error {
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}
	return b.session.Close()
}

// handleGuildCreate registers the guild as a destination. Discord replays
// GuildCreate for every guild on connect, so this also reactivates.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}

	groupID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %q: %v", g.ID, err)
		return
	}

	channelID := defaultResultChannel(g.Guild)
	if _, err := b.destinations.Register(context.Background(), groupID, g.Name, channelID); err != nil {
		log.Errorf("Failed to register destination %d: %v", groupID, err)
	}
}

func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	// An unavailable guild is an outage, not a removal
	if g.Guild == nil || g.Unavailable {
		return
	}

	groupID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %q: %v", g.ID, err)
		return
	}

	if err := b.destinations.Deactivate(context.Background(), groupID); err != nil {
		log.Errorf("Failed to deactivate destination %d: %v", groupID, err)
	}
}

// defaultResultChannel picks the guild's system channel when one is set
func defaultResultChannel(g *discordgo.Guild) *int64 {
	if g.SystemChannelID == "" {
		return nil
	}
	id, err := strconv.ParseInt(g.SystemChannelID, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
