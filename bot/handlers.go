/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"rankings-bot/api/api"
	"rankings-bot/api/shared"
	"rankings-bot/api/store"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
	"github.com/sirupsen/logrus"
)

const commandTimeout = 20 * time.Second

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Rankings Bot v1.0\n")
	res.WriteString("`$rankings`: shows the current world rankings\n")
	res.WriteString("`$teams`: lists the ranked teams. Use these names (or abbreviations) when adding fixtures\n")
	res.WriteString("`$add home score away [options]`: adds a fixture to this channel, e.g. `$add \"New Zealand\" 20-10 France`. ")
	res.WriteString("Use `v` instead of a score for an unplayed fixture. Names that contain two or more words need to be encased in \" (e.g. \"South Africa\")\n")
	res.WriteString("Options: `neutral` (neutral venue), `switched` (the home team is travelling), `rwc` (world cup, double points), ")
	res.WriteString("`counted` (already in the rankings), `pool=A`, `tries=4-2`\n")
	res.WriteString("`$remove n`: removes fixture n\n")
	res.WriteString("`$clear`: removes all fixtures in this channel\n")
	res.WriteString("`$fixtures`: lists this channel's fixtures and what each result is worth\n")
	res.WriteString(fmt.Sprintf("`$upcoming [days]`: loads fixtures from the last rankings update to %d days ahead (replaces this channel's fixtures)\n", b.UpcomingDays))
	res.WriteString("`$project`: shows the rankings after this channel's fixtures\n")
	res.WriteString("`$pools`: shows the pool tables for this channel's fixtures\n")
	res.WriteString("`$share`: gives a code that loads this channel's fixtures somewhere else\n")
	res.WriteString("`$load code`: replaces this channel's fixtures with a shared code\n")
	b.send(session, message.ChannelID, res.String())
}

// rankingsHandler handles the $rankings command with a DiscordSession interface
func (b *Bot) rankingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.GetRankings(ctx)
	if err != nil {
		res = b.errorMessage(err, "getting the rankings")
	}
	b.send(session, message.ChannelID, res)
}

// teamsHandler handles the $teams command with a DiscordSession interface
func (b *Bot) teamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	teams, err := b.APIPtr.GetTeams(ctx)
	if err != nil {
		b.send(session, message.ChannelID, b.errorMessage(err, "getting the teams list"))
		return
	}

	var res strings.Builder
	res.WriteString("Ranked teams are:\n")
	for _, team := range teams {
		res.WriteString(fmt.Sprintf("- %s\n", team))
	}
	b.send(session, message.ChannelID, res.String())
}

// addFixtureHandler handles the $add command with a DiscordSession interface
func (b *Bot) addFixtureHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.AddFixture(ctx, message.ChannelID, userOf(message), commandArgs(message.Content))
	if err != nil {
		res = b.errorMessage(err, "adding the fixture")
	}
	b.send(session, message.ChannelID, res)
}

// removeFixtureHandler handles the $remove command with a DiscordSession interface
func (b *Bot) removeFixtureHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) != 1 {
		b.send(session, message.ChannelID, "Usage: `$remove n` where n is the fixture number from `$fixtures`")
		return
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		b.send(session, message.ChannelID, fmt.Sprintf("'%s' is not a fixture number", args[0]))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.RemoveFixture(ctx, message.ChannelID, number)
	if err != nil {
		res = b.errorMessage(err, "removing the fixture")
	}
	b.send(session, message.ChannelID, res)
}

// clearFixturesHandler handles the $clear command with a DiscordSession interface
func (b *Bot) clearFixturesHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.ClearFixtures(message.ChannelID)
	if err != nil {
		res = b.errorMessage(err, "clearing the fixtures")
	}
	b.send(session, message.ChannelID, res)
}

// listFixturesHandler handles the $fixtures command with a DiscordSession interface
func (b *Bot) listFixturesHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.ListFixtures(ctx, message.ChannelID)
	if err != nil {
		res = b.errorMessage(err, "listing the fixtures")
	}
	b.send(session, message.ChannelID, res)
}

// upcomingFixturesHandler handles the $upcoming command with a DiscordSession interface
func (b *Bot) upcomingFixturesHandler(session DiscordSession, message *discordgo.MessageCreate) {
	days := b.UpcomingDays
	if args := commandArgs(message.Content); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 60 {
			b.send(session, message.ChannelID, "Usage: `$upcoming [days]` with days between 1 and 60")
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.LoadUpcomingFixtures(ctx, message.ChannelID, userOf(message), days)
	if err != nil {
		if errors.Is(err, api.ErrNoFixtures) {
			res = fmt.Sprintf("No fixtures found for the next %d days", days)
		} else {
			res = b.errorMessage(err, "getting upcoming fixtures")
		}
	}
	b.send(session, message.ChannelID, res)
}

// projectHandler handles the $project command with a DiscordSession interface
func (b *Bot) projectHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.ProjectRankings(ctx, message.ChannelID)
	if err != nil {
		res = b.errorMessage(err, "projecting the rankings")
	}
	b.send(session, message.ChannelID, res)
}

// poolsHandler handles the $pools command with a DiscordSession interface
func (b *Bot) poolsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.GetPoolTables(ctx, message.ChannelID)
	if err != nil {
		res = b.errorMessage(err, "building the pool tables")
	}
	b.send(session, message.ChannelID, res)
}

// shareHandler handles the $share command with a DiscordSession interface
func (b *Bot) shareHandler(session DiscordSession, message *discordgo.MessageCreate) {
	code, err := b.APIPtr.ShareFixtures(message.ChannelID)
	if err != nil {
		b.send(session, message.ChannelID, b.errorMessage(err, "sharing the fixtures"))
		return
	}
	b.send(session, message.ChannelID, fmt.Sprintf("Load these fixtures in another channel with:\n`$load %s`", code))
}

// loadHandler handles the $load command with a DiscordSession interface
func (b *Bot) loadHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) != 1 {
		b.send(session, message.ChannelID, "Usage: `$load code` with a code from `$share`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := b.APIPtr.LoadSharedFixtures(ctx, message.ChannelID, userOf(message), strings.Trim(args[0], "`"))
	if err != nil {
		res = b.errorMessage(err, "loading the fixtures")
	}
	b.send(session, message.ChannelID, res)
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID || message.Author.Bot {
		return
	}

	handlers := map[string]func(DiscordSession, *discordgo.MessageCreate){
		"help":     b.helpMessageHandler,
		"rankings": b.rankingsHandler,
		"teams":    b.teamsHandler,
		"add":      b.addFixtureHandler,
		"remove":   b.removeFixtureHandler,
		"clear":    b.clearFixturesHandler,
		"fixtures": b.listFixturesHandler,
		"upcoming": b.upcomingFixturesHandler,
		"project":  b.projectHandler,
		"pools":    b.poolsHandler,
		"share":    b.shareHandler,
		"load":     b.loadHandler,
	}

	command := commandName(message.Content)
	handler, ok := handlers[command]
	if !ok {
		return
	}

	if !b.limiter.Allow(message.Author.ID) {
		b.logger.WithFields(logrus.Fields{
			"user":    message.Author.Username,
			"command": command,
		}).Debug("command dropped by rate limiter")
		return
	}

	b.logger.WithFields(logrus.Fields{
		"user":    message.Author.Username,
		"channel": message.ChannelID,
		"command": command,
	}).Debug("handling command")
	handler(session, message)
}

// send posts a response, split into several messages if it is too long for one
func (b *Bot) send(session DiscordSession, channelID string, content string) {
	for _, part := range splitMessage(content) {
		if _, err := session.ChannelMessageSend(channelID, part); err != nil {
			b.logger.WithError(err).WithField("channel", channelID).Error("failed to send message")
			return
		}
	}
}

// errorMessage turns an api error into a message for the channel. Unexpected errors are logged
func (b *Bot) errorMessage(err error, action string) string {
	switch {
	case errors.Is(err, api.ErrNotReady):
		return "The rankings are not available right now, try again shortly"
	case errors.Is(err, api.ErrNoFixtures):
		return "There are no fixtures in this channel. Add some with `$add` or `$upcoming`"
	case errors.Is(err, api.ErrInvalidFixture):
		return fmt.Sprintf("An error occured %s: %s", action, err)
	case errors.Is(err, store.ErrFixtureIndex):
		return "There is no fixture with that number, check `$fixtures`"
	default:
		b.logger.WithError(err).Errorf("error %s", action)
		return fmt.Sprintf("An unexpected error occured %s", action)
	}
}

// commandArgs splits a command into its arguments, keeping quoted names together and removing the quotes
func commandArgs(content string) []string {
	// we use splitter here instead of go's built in split because now we can have team names that contain spaces
	// e.g. "New Zealand" recognised as one team not two
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		// Unbalanced quotes, fall back to splitting on whitespace
		parts = strings.Fields(content)
	}

	var args []string
	for i, part := range parts {
		if i == 0 {
			continue
		}
		part = strings.ReplaceAll(part, "\"", "")
		part = strings.ReplaceAll(part, "“", "")
		part = strings.ReplaceAll(part, "”", "")
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		args = append(args, part)
	}
	return args
}

func userOf(message *discordgo.MessageCreate) shared.User {
	return shared.User{UserID: message.Author.ID, Username: message.Author.Username}
}
