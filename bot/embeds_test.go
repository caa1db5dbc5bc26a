package bot

import (
	"strings"
	"testing"
	"time"

	"wordler/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatsEmbed(t *testing.T) {
	t.Run("new player", func(t *testing.T) {
		embed := buildStatsEmbed("alice", models.NewPlayerStats(1))

		assert.Contains(t, embed.Title, "alice")
		assert.Equal(t, "No games played yet.", embed.Description)
		assert.Len(t, embed.Fields, 4)
		assert.Nil(t, embed.Footer)
	})

	t.Run("distribution", func(t *testing.T) {
		day := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
		stats := &models.PlayerStats{
			PlayerID:          1,
			TotalGames:        4,
			TotalWins:         3,
			CurrentStreak:     2,
			MaxStreak:         3,
			GuessDistribution: [models.MaxAttempts]int{0, 0, 2, 1, 0, 0},
			LastPlayedDay:     &day,
		}

		embed := buildStatsEmbed("alice", stats)

		require.Len(t, embed.Fields, 5)
		assert.Equal(t, "75%", embed.Fields[1].Value)
		lines := strings.Split(embed.Fields[4].Value, "\n")
		require.Len(t, lines, models.MaxAttempts)
		assert.Equal(t, "`3` ████████████ 2", lines[2])
		assert.Equal(t, "`4` ██████ 1", lines[3])
		assert.Equal(t, "`1`  0", lines[0])
		assert.Equal(t, "Last played 2024-06-02", embed.Footer.Text)
	})
}

func TestBuildLeaderboardEmbed(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		embed := buildLeaderboardEmbed(nil, 5)
		assert.Equal(t, "Nobody has played 5 games yet.", embed.Description)
	})

	t.Run("ranks", func(t *testing.T) {
		entries := []*models.LeaderboardEntry{
			{Rank: 1, DisplayName: "alice", WinPercentage: 90, CurrentStreak: 4, MaxStreak: 9, TotalGames: 10},
			{Rank: 4, DisplayName: "bob", WinPercentage: 50, CurrentStreak: 0, MaxStreak: 2, TotalGames: 6},
		}

		embed := buildLeaderboardEmbed(entries, 5)

		lines := strings.Split(embed.Description, "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "🥇 alice"))
		assert.True(t, strings.HasPrefix(lines[1], "**4.** bob"))
		assert.Contains(t, lines[1], "50% wins")
		assert.Equal(t, "Players with at least 5 games", embed.Footer.Text)
	})
}

func TestInvokerName(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.InteractionCreate
		expected    string
	}{
		{
			name: "nickname wins",
			interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Member: &discordgo.Member{Nick: "Ali", User: &discordgo.User{Username: "alice", GlobalName: "Alice"}},
			}},
			expected: "Ali",
		},
		{
			name: "global name",
			interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Member: &discordgo.Member{User: &discordgo.User{Username: "alice", GlobalName: "Alice"}},
			}},
			expected: "Alice",
		},
		{
			name: "direct message user",
			interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				User: &discordgo.User{Username: "bob"},
			}},
			expected: "bob",
		},
		{
			name:        "nobody",
			interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}},
			expected:    "Unknown User",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, invokerName(tt.interaction))
		})
	}
}

func TestDefaultResultChannel(t *testing.T) {
	id := defaultResultChannel(&discordgo.Guild{SystemChannelID: "123"})
	require.NotNil(t, id)
	assert.Equal(t, int64(123), *id)

	assert.Nil(t, defaultResultChannel(&discordgo.Guild{}))
	assert.Nil(t, defaultResultChannel(&discordgo.Guild{SystemChannelID: "general"}))
}

func TestCommandDefinitions(t *testing.T) {
	names := map[string]*discordgo.ApplicationCommand{}
	for _, cmd := range commandDefinitions() {
		names[cmd.Name] = cmd
	}

	require.Len(t, names, 4)
	for _, admin := range []string{commandChannel, commandAutoNotify} {
		require.NotNil(t, names[admin].DefaultMemberPermissions, admin)
		assert.Equal(t, int64(discordgo.PermissionAdministrator), *names[admin].DefaultMemberPermissions)
	}
	assert.Nil(t, names[commandStats].DefaultMemberPermissions)
	assert.Nil(t, names[commandTop].DefaultMemberPermissions)
}
