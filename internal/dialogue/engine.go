package dialogue

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/godilite/clinic-assistant/internal/roster"
	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
	"go.uber.org/zap"
)

var ErrInvalidUser = errors.New("user id is required")

// Incoming is a free-text message from a user.
type Incoming struct {
	UserID    int64
	FirstName string
	Text      string
}

// Engine drives the roster, detail, visit and rating conversation for every user.
type Engine struct {
	schedule   ScheduleProvider
	ratings    RatingService
	states     *StateStore
	logger     *zap.Logger
	bookingURL string
	contacts   string
}

type Option func(*Engine)

func WithBookingURL(url string) Option {
	return func(e *Engine) { e.bookingURL = url }
}

func WithContacts(contacts string) Option {
	return func(e *Engine) { e.contacts = contacts }
}

func WithStateStore(store *StateStore) Option {
	return func(e *Engine) { e.states = store }
}

func NewEngine(provider ScheduleProvider, ratings RatingService, logger *zap.Logger, opts ...Option) *Engine {
	if provider == nil || ratings == nil {
		panic("nil dependency provided to NewEngine")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		schedule: provider,
		ratings:  ratings,
		states:   NewStateStore(),
		logger:   logger.Named("dialogue"),
		contacts: DefaultContacts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the user's conversation state.
func (e *Engine) State(userID int64) ConversationState {
	return e.states.Get(userID)
}

// HandleMessage processes one text message. Errors are returned only for
// malformed input or a finished context; domain failures become replies.
func (e *Engine) HandleMessage(ctx context.Context, in Incoming) (Response, error) {
	if in.UserID == 0 {
		return Response{}, ErrInvalidUser
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	var resp Response
	e.states.With(in.UserID, func(st *ConversationState) {
		before := st.Stage
		switch st.Stage {
		case StageAwaitingVisitAnswer:
			resp = e.onVisitAnswer(ctx, in, st)
		case StageAwaitingRating:
			resp = e.onRating(ctx, in, st)
		case StageAwaitingSurname:
			if cmd, ok := lookupCommand(in.Text); ok {
				st.reset()
				resp = cmd(e, ctx, in, st)
				break
			}
			resp = e.onSurname(ctx, in, st)
		default:
			if cmd, ok := lookupCommand(in.Text); ok {
				resp = cmd(e, ctx, in, st)
				break
			}
			resp = reply(Message{Text: msgUnrecognized, Keyboard: MainKeyboard()})
		}
		e.logTransition(in.UserID, before, st.Stage)
	})
	return resp, nil
}

// HandleAction processes an inline-button press carrying data such as "doctor_42".
func (e *Engine) HandleAction(ctx context.Context, userID int64, data string) (Response, error) {
	if userID == 0 {
		return Response{}, ErrInvalidUser
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	action, err := ParseAction(data)
	if err != nil {
		e.logger.Warn("unknown action", zap.Int64("user_id", userID), zap.String("data", data))
		return reply(text(msgUnknownAction)), nil
	}

	var resp Response
	e.states.With(userID, func(st *ConversationState) {
		before := st.Stage
		switch action.Kind {
		case ActionSelectDoctor:
			resp = e.selectDoctor(ctx, action.Arg, st)
		case ActionTodayDoctor:
			resp = e.todayView(ctx, action.Arg)
		case ActionRosterPage:
			resp = e.rosterPage(ctx, int(action.Arg), rosterDetail, true)
		case ActionTodayPage:
			resp = e.rosterPage(ctx, int(action.Arg), rosterToday, true)
		case ActionSearchBySurname:
			st.reset()
			st.Stage = StageAwaitingSurname
			resp = reply(text(msgSurnamePrompt))
		case ActionCancel:
			st.reset()
			resp = reply(Message{Text: msgCancelled, Keyboard: MainKeyboard()})
		}
		e.logTransition(userID, before, st.Stage)
	})
	return resp, nil
}

// selectDoctor is the single entry point into the visit flow. It always
// replaces whatever doctor was pending; on failure the state is untouched.
func (e *Engine) selectDoctor(ctx context.Context, doctorID int64, st *ConversationState) Response {
	doctor, err := e.schedule.FindDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, schedule.ErrDoctorNotFound) {
			return reply(Message{Text: msgDoctorNotFound, Edit: true})
		}
		e.logger.Error("doctor lookup failed", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return reply(text(msgScheduleFailed))
	}

	var stats *service.DoctorRatingStats
	if s, err := e.ratings.GetStats(ctx, doctor.ID); err != nil {
		e.logger.Error("rating stats unavailable", zap.Int64("doctor_id", doctor.ID), zap.Error(err))
	} else {
		stats = &s
	}

	st.awaitVisitAnswer(doctor.ID, doctor.Name)

	detail := withBooking(detailText(doctor, stats), e.bookingURL)
	detail.Edit = true
	return reply(detail, Message{Text: msgVisitQuestion, Keyboard: VisitKeyboard()})
}

func (e *Engine) onVisitAnswer(ctx context.Context, in Incoming, st *ConversationState) Response {
	switch strings.ToLower(strings.TrimSpace(in.Text)) {
	case strings.ToLower(AnswerYes):
		st.Stage = StageAwaitingRating
		return reply(Message{Text: msgRatingPrompt, Keyboard: RatingKeyboard()})

	case strings.ToLower(AnswerNo):
		outcome := service.NotVisited(in.UserID, st.Pending.ID, st.Pending.Name)
		if err := e.ratings.RecordVisit(ctx, outcome); err != nil {
			e.logger.Error("save visit answer failed", zap.Int64("user_id", in.UserID), zap.Error(err))
			return reply(Message{Text: msgSaveFailed, Keyboard: VisitKeyboard()})
		}
		st.reset()
		return reply(Message{Text: msgThanksNotVisited, Keyboard: MainKeyboard()})
	}

	return reply(Message{Text: msgVisitRetry, Keyboard: VisitKeyboard()})
}

func (e *Engine) onRating(ctx context.Context, in Incoming, st *ConversationState) Response {
	rating, ok := ParseRating(in.Text)
	if !ok {
		return reply(Message{Text: msgRatingRetry, Keyboard: RatingKeyboard()})
	}

	outcome := service.Rated(in.UserID, st.Pending.ID, st.Pending.Name, rating)
	if err := e.ratings.RecordVisit(ctx, outcome); err != nil {
		e.logger.Error("save rating failed", zap.Int64("user_id", in.UserID), zap.Error(err))
		return reply(Message{Text: msgSaveFailed, Keyboard: RatingKeyboard()})
	}
	st.reset()
	return reply(Message{Text: msgThanksRated, Keyboard: MainKeyboard()})
}

func (e *Engine) onSurname(ctx context.Context, in Incoming, st *ConversationState) Response {
	doctors, err := e.schedule.ListDoctors(ctx)
	if err != nil {
		e.logger.Error("roster fetch failed", zap.Error(err))
		return reply(text(msgRosterFailed))
	}

	hits := roster.SearchByPrefix(doctors, in.Text)
	if len(hits) == 0 {
		return reply(text(msgSurnameNotFound))
	}
	st.reset()
	return reply(Message{Text: msgSearchResults, Inline: doctorRows(hits, rosterDetail)})
}

func (e *Engine) todayView(ctx context.Context, doctorID int64) Response {
	doctor, err := e.schedule.FindDoctor(ctx, doctorID)
	if err == nil {
		var today schedule.TodaySchedule
		today, err = e.schedule.GetTodaySchedule(ctx, doctor.Name)
		if err == nil {
			msg := withBooking(todayText(today), e.bookingURL)
			msg.Edit = true
			return reply(msg)
		}
	}
	if errors.Is(err, schedule.ErrDoctorNotFound) {
		return reply(Message{Text: msgDoctorNotFound, Edit: true})
	}
	e.logger.Error("today schedule failed", zap.Int64("doctor_id", doctorID), zap.Error(err))
	return reply(text(msgScheduleFailed))
}

func (e *Engine) rosterPage(ctx context.Context, page int, mode rosterMode, edit bool) Response {
	doctors, err := e.schedule.ListDoctors(ctx)
	if err != nil {
		e.logger.Error("roster fetch failed", zap.Error(err))
		return reply(text(msgRosterFailed))
	}
	if len(doctors) == 0 {
		return reply(text(msgRosterEmpty))
	}

	p := roster.Paginate(doctors, roster.ClampPage(page, len(doctors)))
	title := msgChooseDoctor
	if mode == rosterToday {
		title = msgChooseDoctorToday
	}
	return reply(Message{Text: title, Inline: rosterMarkup(p, mode), Edit: edit})
}

func (e *Engine) logTransition(userID int64, from, to Stage) {
	if from == to {
		return
	}
	e.logger.Debug("stage changed",
		zap.Int64("user_id", userID),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}

// ParseRating accepts a base-10 integer from 1 to 5 written with digits only.
func ParseRating(s string) (int, bool) {
	if s == "" || len(s) > 3 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < service.MinRating || n > service.MaxRating {
		return 0, false
	}
	return n, true
}
