package template

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/eientei/blueprint/template/templatetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanGuild() *templatetest.Session {
	fake := templatetest.New("g1")
	fake.Info.OwnerID = "owner"
	fake.Info.SystemChannelID = "sys"
	fake.Roles = []*discordgo.Role{
		{ID: "g1", Name: "@everyone", Position: 0, Permissions: 1 << 10},
		{ID: "low", Name: "low", Position: 1},
		{ID: "mid", Name: "mid", Position: 2},
		{ID: "bot", Name: "bot", Position: 3, Permissions: 1 << 4},
		{ID: "high", Name: "high", Position: 4},
	}
	fake.Channels = []*discordgo.Channel{
		{ID: "sys", Name: "system"},
		{ID: "cat", Name: "category", Type: discordgo.ChannelTypeGuildCategory},
		{ID: "open", Name: "open"},
		{ID: "locked", Name: "locked", PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "bot", Type: discordgo.PermissionOverwriteTypeRole, Deny: 1 << 4},
		}},
	}
	fake.Members["botuser"] = &discordgo.Member{
		User:  &discordgo.User{ID: "botuser"},
		Roles: []string{"bot", "low"},
	}

	return fake
}

func TestCleanRespectsHierarchyAndSystemChannel(t *testing.T) {
	fake := cleanGuild()

	report, err := (&Cleaner{Session: fake}).Clean(context.Background(), "g1", "botuser")
	require.NoError(t, err)

	var channels, roles []string

	for _, c := range fake.CallsOf("ChannelDelete") {
		channels = append(channels, c.Name)
	}

	for _, c := range fake.CallsOf("GuildRoleDelete") {
		roles = append(roles, c.Name)
	}

	assert.Equal(t, []string{"cat", "open"}, channels)
	assert.Equal(t, []string{"low", "mid"}, roles)
	assert.Equal(t, 1, report.Deleted[KindCategory])
	assert.Equal(t, 1, report.Deleted[KindChannel])
	assert.Equal(t, 2, report.Deleted[KindRole])
}

func TestCleanContinuesAfterFailures(t *testing.T) {
	fake := cleanGuild()
	fake.FailNames["cat"] = true
	fake.FailNames["low"] = true

	report, err := (&Cleaner{Session: fake}).Clean(context.Background(), "g1", "botuser")
	require.NoError(t, err)

	assert.Len(t, fake.CallsOf("ChannelDelete"), 2)
	assert.Len(t, fake.CallsOf("GuildRoleDelete"), 2)
	assert.Equal(t, 1, report.Failed(KindCategory))
	assert.Equal(t, 1, report.Failed(KindRole))
	assert.Equal(t, 1, report.Deleted[KindRole])
	assert.Contains(t, report.String(), "roles: 1 deleted, 1 failed")
}

func TestCleanMissingBotMemberAborts(t *testing.T) {
	fake := cleanGuild()

	_, err := (&Cleaner{Session: fake}).Clean(context.Background(), "g1", "nobody")
	require.Error(t, err)
	assert.Empty(t, fake.Calls)
}

func TestChannelPermissions(t *testing.T) {
	fake := cleanGuild()
	member := fake.Members["botuser"]

	assert.True(t, ChannelPermissions(fake.Info, fake.Roles, member, fake.Channels[2]).Has(Flags["ManageChannels"]))
	assert.False(t, ChannelPermissions(fake.Info, fake.Roles, member, fake.Channels[3]).Has(Flags["ManageChannels"]))

	owner := &discordgo.Member{User: &discordgo.User{ID: "owner"}}
	assert.Equal(t, PermissionAll, ChannelPermissions(fake.Info, fake.Roles, owner, fake.Channels[3]))

	fake.Roles[3].Permissions = 8
	assert.Equal(t, PermissionAll, ChannelPermissions(fake.Info, fake.Roles, member, fake.Channels[3]))

	fake.Roles[3].Permissions = 0
	personal := &discordgo.Channel{PermissionOverwrites: []*discordgo.PermissionOverwrite{
		{ID: "g1", Type: discordgo.PermissionOverwriteTypeRole, Deny: 1 << 10},
		{ID: "botuser", Type: discordgo.PermissionOverwriteTypeMember, Allow: 1 << 4},
	}}
	perms := ChannelPermissions(fake.Info, fake.Roles, member, personal)
	assert.True(t, perms.Has(Flags["ManageChannels"]))
	assert.False(t, perms.Has(Flags["ViewChannel"]))
}
