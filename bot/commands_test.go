package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDefinitions_Routable(t *testing.T) {
	routed := map[string]bool{
		"dinks": true, "bank": true, "bitcoin": true, "rob": true,
		"prison": true, "coinflip": true, "dice": true, "slots": true,
		"economy": true,
	}

	commands := commandDefinitions()
	require.Len(t, commands, len(routed))

	seen := make(map[string]bool)
	for _, cmd := range commands {
		assert.True(t, routed[cmd.Name], "command %s has no route", cmd.Name)
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		assert.NotEmpty(t, cmd.Description)
		seen[cmd.Name] = true
	}
}

func TestCommandDefinitions_AmountsAreStrings(t *testing.T) {
	var check func(opts []*discordgo.ApplicationCommandOption)
	check = func(opts []*discordgo.ApplicationCommandOption) {
		for _, opt := range opts {
			if opt.Name == "amount" {
				assert.Equal(t, discordgo.ApplicationCommandOptionString, opt.Type)
			}
			check(opt.Options)
		}
	}
	for _, cmd := range commandDefinitions() {
		check(cmd.Options)
	}
}

func TestCommandDefinitions_UpgradeTrackChoices(t *testing.T) {
	for _, cmd := range commandDefinitions() {
		if cmd.Name != "bank" {
			continue
		}
		for _, sub := range cmd.Options {
			if sub.Name != "upgrade" {
				continue
			}
			require.Len(t, sub.Options, 1)
			var values []string
			for _, c := range sub.Options[0].Choices {
				values = append(values, c.Value.(string))
			}
			assert.Equal(t, []string{"interest", "capacity", "rob"}, values)
			return
		}
	}
	t.Fatal("bank upgrade subcommand not found")
}

func TestCommandDefinitions_EconomyIsAdminOnly(t *testing.T) {
	for _, cmd := range commandDefinitions() {
		if cmd.Name != "economy" {
			assert.Nil(t, cmd.DefaultMemberPermissions, cmd.Name)
			continue
		}
		require.NotNil(t, cmd.DefaultMemberPermissions)
		assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)

		var subs []string
		for _, sub := range cmd.Options {
			subs = append(subs, sub.Name)
		}
		assert.Equal(t, []string{"grant", "take", "jail"}, subs)
	}
}
