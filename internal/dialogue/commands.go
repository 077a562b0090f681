package dialogue

import (
	"context"
	"strings"
)

type commandFunc func(e *Engine, ctx context.Context, in Incoming, st *ConversationState) Response

// commands maps exact message texts to handlers. Anything else is unrecognized.
var commands = map[string]commandFunc{
	"/start":      (*Engine).cmdGreeting,
	"/help":       (*Engine).cmdGreeting,
	LabelHelp:     (*Engine).cmdGreeting,
	LabelSchedule: (*Engine).cmdSchedule,
	LabelToday:    (*Engine).cmdToday,
	LabelContacts: (*Engine).cmdContacts,
}

func lookupCommand(text string) (commandFunc, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		// "/start@clinic_bot" addresses the bot in group chats.
		if at := strings.IndexByte(text, '@'); at > 0 {
			text = text[:at]
		}
		if sp := strings.IndexByte(text, ' '); sp > 0 {
			text = text[:sp]
		}
	}
	cmd, ok := commands[text]
	return cmd, ok
}

func (e *Engine) cmdGreeting(_ context.Context, in Incoming, _ *ConversationState) Response {
	return reply(Message{Text: greeting(in.FirstName), Keyboard: MainKeyboard()})
}

func (e *Engine) cmdContacts(_ context.Context, _ Incoming, _ *ConversationState) Response {
	return reply(text(e.contacts))
}

func (e *Engine) cmdSchedule(ctx context.Context, _ Incoming, _ *ConversationState) Response {
	return e.rosterPage(ctx, 0, rosterDetail, false)
}

func (e *Engine) cmdToday(ctx context.Context, _ Incoming, _ *ConversationState) Response {
	return e.rosterPage(ctx, 0, rosterToday, false)
}
