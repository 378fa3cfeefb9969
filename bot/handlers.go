/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"confidence-pool/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const noActivePoolMessage = "There is no active pool right now"

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Confidence Pool Bot\n")
	res.WriteString("`$pool`: shows the active pool, how many games have been scheduled and finished and how many points each picker can earn\n")
	res.WriteString("`$standings [n]`: shows the top n pickers (default 10) ranked by points earned, ties broken by points still possible\n")
	res.WriteString("`$upcoming`: shows the games still to be played in the active pool\n")
	res.WriteString("`$picker \"name\"`: shows where a picker stands. There is fuzzy matching on names, names that contain two or more words need to be encased in \" (e.g. \"Jane Doe\")\n")
	res.WriteString("Picks are made on the website, the bot is read only\n")
	send(session, message.ChannelID, res.String())
}

// poolHandler handles the $pool command with a DiscordSession interface
func (b *Bot) poolHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.GetStandings(ctx)
	if err != nil {
		send(session, message.ChannelID, errorReply(err, "An error occurred getting the pool details"))
		return
	}
	send(session, message.ChannelID, formatPool(res))
}

// standingsHandler handles the $standings command with a DiscordSession interface
func (b *Bot) standingsHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil {
		send(session, message.ChannelID, "Could not read that command, check your quotes")
		return
	}
	limit, err := standingsLimit(args)
	if err != nil {
		send(session, message.ChannelID, fmt.Sprintf("Usage: `$standings [n]`, %s", err))
		return
	}

	res, err := b.APIPtr.GetStandings(ctx)
	if err != nil {
		send(session, message.ChannelID, errorReply(err, "An error occurred getting the standings"))
		return
	}
	send(session, message.ChannelID, formatStandings(res, limit))
}

// upcomingHandler handles the $upcoming command with a DiscordSession interface
func (b *Bot) upcomingHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	games, err := b.APIPtr.UpcomingGames(ctx)
	if err != nil {
		send(session, message.ChannelID, errorReply(err, "An error occurred getting upcoming games"))
		return
	}
	send(session, message.ChannelID, formatUpcoming(games))
}

// pickerHandler handles the $picker command with a DiscordSession interface
func (b *Bot) pickerHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) == 0 {
		send(session, message.ChannelID, "Usage: `$picker \"name\"`")
		return
	}
	name := strings.Join(args, " ")

	res, err := b.APIPtr.GetStandings(ctx)
	if err != nil {
		send(session, message.ChannelID, errorReply(err, "An error occurred getting the standings"))
		return
	}
	entry, ok := findPicker(res.Standings, name)
	if !ok {
		send(session, message.ChannelID, fmt.Sprintf("Could not find a single picker matching %q", name))
		return
	}
	send(session, message.ChannelID, formatPicker(entry, len(res.Standings)))
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$pool"):
		b.poolHandler(ctx, session, message)

	case startsWith(message.Content, "$standings"):
		b.standingsHandler(ctx, session, message)

	case startsWith(message.Content, "$upcoming"):
		b.upcomingHandler(ctx, session, message)

	case startsWith(message.Content, "$picker"):
		b.pickerHandler(ctx, session, message)
	}
}

// errorReply logs unexpected errors and returns the message to show in the channel
func errorReply(err error, fallback string) string {
	if errors.Is(err, shared.ErrNoActivePool) {
		return noActivePoolMessage
	}
	log.Error().Err(err).Msg("bot command failed")
	return fallback
}

func send(session DiscordSession, channelID, content string) {
	if _, err := session.ChannelMessageSend(channelID, content); err != nil {
		log.Error().Err(err).Str("channel", channelID).Msg("failed to send discord message")
	}
}
