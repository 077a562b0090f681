package dialogue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ActionKind identifies an inline-button action.
type ActionKind int

const (
	ActionSelectDoctor ActionKind = iota + 1
	ActionTodayDoctor
	ActionRosterPage
	ActionTodayPage
	ActionSearchBySurname
	ActionCancel
)

const (
	prefixDoctor    = "doctor_"
	prefixToday     = "today_"
	prefixPage      = "page_"
	prefixTodayPage = "todaypage_"
	dataSearch      = "search_by_surname"
	dataCancel      = "cancel"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is a decoded inline-button payload.
type Action struct {
	Kind ActionKind
	Arg  int64
}

// Data encodes the action the way it travels through the chat transport.
func (a Action) Data() string {
	switch a.Kind {
	case ActionSelectDoctor:
		return prefixDoctor + strconv.FormatInt(a.Arg, 10)
	case ActionTodayDoctor:
		return prefixToday + strconv.FormatInt(a.Arg, 10)
	case ActionRosterPage:
		return prefixPage + strconv.FormatInt(a.Arg, 10)
	case ActionTodayPage:
		return prefixTodayPage + strconv.FormatInt(a.Arg, 10)
	case ActionSearchBySurname:
		return dataSearch
	case ActionCancel:
		return dataCancel
	}
	return ""
}

// ParseAction decodes button data such as "doctor_42" or "page_1".
func ParseAction(data string) (Action, error) {
	data = strings.TrimSpace(data)
	switch data {
	case dataSearch:
		return Action{Kind: ActionSearchBySurname}, nil
	case dataCancel:
		return Action{Kind: ActionCancel}, nil
	}

	// todaypage_ must be tested before today_.
	for _, p := range []struct {
		prefix string
		kind   ActionKind
	}{
		{prefixTodayPage, ActionTodayPage},
		{prefixToday, ActionTodayDoctor},
		{prefixDoctor, ActionSelectDoctor},
		{prefixPage, ActionRosterPage},
	} {
		rest, ok := strings.CutPrefix(data, p.prefix)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return Action{Kind: p.kind, Arg: n}, nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
}
