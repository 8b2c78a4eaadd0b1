/* bot.go
 * Contains logic used for creating the bot and routing commands. Requires a discord bot token, and APIPtr both of
 * which are passed in from main.go
 */

package bot

import (
	"fmt"
	"rankings-bot/api/api"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	commandPrefix = "$"
	// Discord rejects messages longer than this
	maxMessageLength = 2000
	// Commands per second per user, and the burst allowed on top
	commandRate  = 1
	commandBurst = 3
	// Default number of days ahead for $upcoming
	DefaultUpcomingDays = 7
)

type Bot struct {
	BotToken     string
	APIPtr       *api.API
	UpcomingDays int

	limiter *UserRateLimiter
	logger  *logrus.Logger
}

func NewBot(botToken string, apiPtr *api.API, upcomingDays int, logger *logrus.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Bot{
		BotToken:     botToken,
		APIPtr:       apiPtr,
		UpcomingDays: upcomingDays,
		limiter:      NewUserRateLimiter(rate.Limit(commandRate), commandBurst),
		logger:       logger,
	}, nil
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}

// Helper function to get the command word of a message
// Preconditions: Receives message content
// Postconditions: Returns the lowercased first word without the prefix (e.g. "add" for "$add ..."), or "" if the
// message is not a command
func commandName(content string) string {
	content = strings.TrimSpace(content)
	if !startsWith(content, commandPrefix) {
		return ""
	}
	fields := strings.Fields(content)
	return strings.ToLower(strings.TrimPrefix(fields[0], commandPrefix))
}

// Helper function to split a long response into messages under the discord limit, breaking on new lines where
// possible. Code blocks that are split are closed and reopened so each message renders
// Preconditions: Receives the full response
// Postconditions: Returns one or more message bodies, each at most maxMessageLength long
func splitMessage(content string) []string {
	if len(content) <= maxMessageLength {
		return []string{content}
	}

	const fence = "```"
	var messages []string
	var current strings.Builder
	inCode := false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		msg := current.String()
		if inCode {
			msg += fence + "\n"
		}
		messages = append(messages, msg)
		current.Reset()
		if inCode {
			current.WriteString(fence + "\n")
		}
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		// Hard split lines that could never fit on their own
		for len(line) > maxMessageLength-2*len(fence)-2 {
			flush()
			cut := maxMessageLength - 2*len(fence) - 2
			current.WriteString(line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line)+len(fence)+1 > maxMessageLength {
			flush()
		}
		current.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			inCode = !inCode
		}
	}
	if current.Len() > 0 {
		messages = append(messages, current.String())
	}
	return messages
}
