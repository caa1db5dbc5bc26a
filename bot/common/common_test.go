package common

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFormatBar(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		highest  int
		width    int
		expected string
	}{
		{"full", 4, 4, 8, "████████"},
		{"half", 2, 4, 8, "████"},
		{"small count keeps one block", 1, 100, 8, "█"},
		{"zero", 0, 4, 8, ""},
		{"no games", 0, 0, 8, ""},
		{"capped at width", 9, 4, 8, "████████"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBar(tt.count, tt.highest, tt.width))
		})
	}
}

func TestIsUserAdmin(t *testing.T) {
	interaction := func(member *discordgo.Member) *discordgo.InteractionCreate {
		return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: member}}
	}

	assert.True(t, IsUserAdmin(interaction(&discordgo.Member{Permissions: discordgo.PermissionAdministrator})))
	assert.False(t, IsUserAdmin(interaction(&discordgo.Member{Permissions: discordgo.PermissionSendMessages})))
	assert.False(t, IsUserAdmin(interaction(nil)))
}

func TestInvokerID(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "1"}},
	}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "2"},
	}}

	assert.Equal(t, "1", InvokerID(guild))
	assert.Equal(t, "2", InvokerID(dm))
	assert.Equal(t, "", InvokerID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}
