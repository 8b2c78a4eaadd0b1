/* bot_command_test.go
 * Contains unit tests for NewBot
 */

package bot

import (
	"rankings-bot/api/api"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Create a mock API for testing
func createMockAPI(t *testing.T) *api.API {
	t.Helper()
	logger, _ := test.NewNullLogger()
	apiPtr, err := api.NewAPI(api.NewMockStore(), logger)
	require.NoError(t, err)
	return apiPtr
}

// region NewBot tests

func TestNewBot_Success(t *testing.T) {
	apiPtr := createMockAPI(t)
	bot, err := NewBot("test_token", apiPtr, 14, nil)

	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
	assert.Same(t, apiPtr, bot.APIPtr)
	assert.Equal(t, 14, bot.UpcomingDays)
	assert.NotNil(t, bot.limiter)
	assert.NotNil(t, bot.logger)
}

func TestNewBot_Defaults(t *testing.T) {
	bot, err := NewBot("test_token", createMockAPI(t), 0, nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultUpcomingDays, bot.UpcomingDays)
}

func TestNewBot_EmptyToken(t *testing.T) {
	_, err := NewBot("", createMockAPI(t), 7, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "botToken is required")
}

func TestNewBot_MissingAPI(t *testing.T) {
	_, err := NewBot("test_token", nil, 7, nil)

	assert.Error(t, err)
}

// Commands from one user beyond the default burst are dropped
func TestNewBot_DefaultLimiter(t *testing.T) {
	bot, err := NewBot("test_token", createMockAPI(t), 7, nil)
	require.NoError(t, err)
	mockSession := NewMockDiscordSession()

	for i := 0; i < commandBurst+3; i++ {
		run(bot, mockSession, "$help")
	}

	assert.Len(t, mockSession.SentMessages, commandBurst)
}

// endregion
