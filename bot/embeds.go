package bot

import (
	"fmt"
	"strings"

	"wordler/bot/common"
	"wordler/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorStats       = 0x00BC7D
	colorLeaderboard = 0xF0B100
)

var rankMedals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// buildStatsEmbed renders a player's aggregate with the guess distribution
// as a bar chart
func buildStatsEmbed(displayName string, stats *models.PlayerStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Wordle stats for %s", displayName),
		Color: colorStats,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Played", Value: fmt.Sprintf("%d", stats.TotalGames), Inline: true},
			{Name: "Win %", Value: fmt.Sprintf("%d%%", stats.WinPercentage()), Inline: true},
			{Name: "Current streak", Value: fmt.Sprintf("%d", stats.CurrentStreak), Inline: true},
			{Name: "Max streak", Value: fmt.Sprintf("%d", stats.MaxStreak), Inline: true},
		},
	}

	if stats.TotalGames == 0 {
		embed.Description = "No games played yet."
		return embed
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Guess distribution",
		Value: formatDistribution(stats.GuessDistribution),
	})

	if stats.LastPlayedDay != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Last played " + stats.LastPlayedDay.Format("2006-01-02"),
		}
	}
	return embed
}

func formatDistribution(dist [models.MaxAttempts]int) string {
	highest := 0
	for _, count := range dist {
		highest = max(highest, count)
	}

	var b strings.Builder
	for i, count := range dist {
		fmt.Fprintf(&b, "`%d` %s %d\n", i+1, common.FormatBar(count, highest, 12), count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildLeaderboardEmbed renders ranked entries, one line each
func buildLeaderboardEmbed(entries []*models.LeaderboardEntry, minGames int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Wordle leaderboard",
		Color: colorLeaderboard,
	}

	if len(entries) == 0 {
		embed.Description = fmt.Sprintf("Nobody has played %d games yet.", minGames)
		return embed
	}

	var b strings.Builder
	for _, e := range entries {
		rank, ok := rankMedals[e.Rank]
		if !ok {
			rank = fmt.Sprintf("**%d.**", e.Rank)
		}
		fmt.Fprintf(&b, "%s %s · %d%% wins · 🔥 %d (best %d) · %d games\n",
			rank, e.DisplayName, e.WinPercentage, e.CurrentStreak, e.MaxStreak, e.TotalGames)
	}
	embed.Description = strings.TrimRight(b.String(), "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Players with at least %d games", minGames),
	}
	return embed
}
