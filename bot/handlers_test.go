/* handlers_test.go
 * Contains unit tests for bot command handlers using mock Discord session
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"confidence-pool/api/api"
	"confidence-pool/api/logic"
	"confidence-pool/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2025, time.January, 11, 18, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

// createTestBot creates a Bot over a pool of two games. Jane and John have picked both games and the first game has
// been won by the Ravens
func createTestBot(t *testing.T) (*Bot, *api.MockStore) {
	t.Helper()
	ctx := context.Background()
	ms := api.NewMockStore()
	a, err := api.New(ms, nil, ms.Clock)
	require.NoError(t, err)

	admin, err := a.Register(ctx, api.RegisterRequest{DisplayName: "Pool Admin"})
	require.NoError(t, err)
	pool, err := a.CreatePool(ctx, admin.Participant.ID, api.PoolInput{
		Name:       ptr("Playoffs 2025"),
		StartDate:  ptr(testNow.Add(-24 * time.Hour)),
		EndDate:    ptr(testNow.Add(30 * 24 * time.Hour)),
		TotalGames: ptr(2),
	})
	require.NoError(t, err)

	first, err := a.CreateGame(ctx, admin.Participant.ID, pool.ID, api.GameInput{
		GameTitle: ptr("Steelers at Ravens"),
		HomeTeam:  ptr("Baltimore Ravens"),
		AwayTeam:  ptr("Pittsburgh Steelers"),
		GameTime:  ptr(testNow.Add(-2 * time.Hour)),
	})
	require.NoError(t, err)
	second, err := a.CreateGame(ctx, admin.Participant.ID, pool.ID, api.GameInput{
		GameTitle: ptr("Packers at Eagles"),
		HomeTeam:  ptr("Philadelphia Eagles"),
		AwayTeam:  ptr("Green Bay Packers"),
		GameTime:  ptr(testNow.Add(24 * time.Hour)),
	})
	require.NoError(t, err)

	pick := func(gameID primitive.ObjectID, team string, points int) logic.PickInput {
		return logic.PickInput{
			GameID:           ptr(gameID),
			SelectedTeam:     ptr(team),
			ConfidencePoints: ptr(points),
			PoolID:           ptr(pool.ID),
			Round:            ptr(string(shared.RoundWildCard)),
		}
	}
	for _, p := range []struct {
		name         string
		first, other string
	}{
		{"Jane Doe", "Baltimore Ravens", "Green Bay Packers"},
		{"John Smith", "Pittsburgh Steelers", "Philadelphia Eagles"},
	} {
		reg, err := a.Register(ctx, api.RegisterRequest{DisplayName: p.name})
		require.NoError(t, err)
		_, err = a.JoinPool(ctx, reg.Participant.ID, pool.ID)
		require.NoError(t, err)
		_, err = a.SubmitPicks(ctx, reg.Participant.ID, api.SubmitPicksRequest{
			Picks: []logic.PickInput{pick(first.ID, p.first, 2), pick(second.ID, p.other, 1)},
		})
		require.NoError(t, err)
	}

	_, err = a.RecordGameResult(ctx, admin.Participant.ID, first.ID, api.GameResultRequest{Winner: "Baltimore Ravens", IsComplete: true})
	require.NoError(t, err)

	return &Bot{BotToken: "test_token", APIPtr: a}, ms
}

// createEmptyBot creates a Bot with no pools at all
func createEmptyBot(t *testing.T) *Bot {
	t.Helper()
	ms := api.NewMockStore()
	a, err := api.New(ms, nil, ms.Clock)
	require.NoError(t, err)
	return &Bot{BotToken: "test_token", APIPtr: a}
}

// createMockMessage creates a mock Discord message for testing
func createMockMessage(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:   content,
			ChannelID: "channel123",
			Author: &discordgo.User{
				ID:       "user123",
				Username: "TestUser",
			},
		},
	}
}

// run routes a message through newMessageHandler and returns the reply
func run(t *testing.T, bot *Bot, content string) MockMessage {
	t.Helper()
	session := NewMockDiscordSession()
	bot.newMessageHandler(context.Background(), session, createMockMessage(content), "bot123")
	require.Len(t, session.SentMessages, 1)
	msg := session.GetLastMessage()
	assert.Equal(t, "channel123", msg.ChannelID)
	return msg
}

// region routing tests

func TestNewMessage_IgnoresOwnMessages(t *testing.T) {
	bot, _ := createTestBot(t)
	session := NewMockDiscordSession()
	message := createMockMessage("$help")
	message.Author.ID = "bot123"

	bot.newMessageHandler(context.Background(), session, message, "bot123")
	assert.Empty(t, session.SentMessages)
}

func TestNewMessage_IgnoresOtherText(t *testing.T) {
	bot, _ := createTestBot(t)
	session := NewMockDiscordSession()

	bot.newMessageHandler(context.Background(), session, createMockMessage("what's the score?"), "bot123")
	bot.newMessageHandler(context.Background(), session, createMockMessage("$set ravens"), "bot123")
	assert.Empty(t, session.SentMessages)
}

func TestSend_ErrorIsSwallowed(t *testing.T) {
	bot, _ := createTestBot(t)
	session := NewMockDiscordSession()
	session.ErrorToReturn = errors.New("discord unavailable")

	assert.NotPanics(t, func() {
		bot.newMessageHandler(context.Background(), session, createMockMessage("$help"), "bot123")
	})
	assert.Empty(t, session.SentMessages)
}

// endregion

// region command tests

func TestHelpMessage(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$help")
	assert.Contains(t, msg.Content, "Confidence Pool Bot")
	assert.Contains(t, msg.Content, "$standings")
	assert.Contains(t, msg.Content, "$upcoming")
	assert.Contains(t, msg.Content, "$picker")
	assert.Contains(t, msg.Content, "$pool")
}

func TestPool(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$pool")
	assert.Contains(t, msg.Content, "**Playoffs 2025**")
	assert.Contains(t, msg.Content, "Games: 2 scheduled of 2, 1 final")
	assert.Contains(t, msg.Content, "Points available per picker: 3")
	assert.Contains(t, msg.Content, "Pickers: 3")
}

func TestStandings(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$standings")
	assert.Contains(t, msg.Content, "1. Jane Doe: 2 pts (3 possible)")
	assert.Contains(t, msg.Content, "2. Pool Admin: 0 pts (3 possible)")
	assert.Contains(t, msg.Content, "3. John Smith: 0 pts (1 possible)")
}

func TestStandings_Limit(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$standings 1")
	assert.Contains(t, msg.Content, "Jane Doe")
	assert.NotContains(t, msg.Content, "John Smith")
	assert.Contains(t, msg.Content, "...and 2 more")
}

func TestStandings_BadLimit(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$standings many")
	assert.Contains(t, msg.Content, "Usage: `$standings [n]`")
}

func TestStandings_NoActivePool(t *testing.T) {
	msg := run(t, createEmptyBot(t), "$standings")
	assert.Equal(t, noActivePoolMessage, msg.Content)
}

func TestStandings_StorageError(t *testing.T) {
	bot, ms := createTestBot(t)
	ms.FailOn("ListPicks", shared.ErrStorageFailure)

	msg := run(t, bot, "$standings")
	assert.Equal(t, "An error occurred getting the standings", msg.Content)
}

func TestUpcoming(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$upcoming")
	assert.Contains(t, msg.Content, "Green Bay Packers vs Philadelphia Eagles")
	assert.NotContains(t, msg.Content, "Baltimore Ravens")
}

func TestUpcoming_NoActivePool(t *testing.T) {
	msg := run(t, createEmptyBot(t), "$upcoming")
	assert.Equal(t, noActivePoolMessage, msg.Content)
}

func TestPicker(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, `$picker "john smith"`)
	assert.Equal(t, "John Smith is ranked 3 of 3 with 0 pts earned, 2 lost and 1 still possible (0/1 picks correct)", msg.Content)
}

func TestPicker_FuzzyName(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$picker jane")
	assert.Contains(t, msg.Content, "Jane Doe is ranked 1 of 3")
}

func TestPicker_NotFound(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$picker nobody")
	assert.Contains(t, msg.Content, `Could not find a single picker matching "nobody"`)
}

func TestPicker_MissingName(t *testing.T) {
	bot, _ := createTestBot(t)

	msg := run(t, bot, "$picker")
	assert.Equal(t, "Usage: `$picker \"name\"`", msg.Content)
}

// endregion
