package dialogue

import "fmt"

// Stage is the position of one user in the visit flow.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingVisitAnswer
	StageAwaitingRating
	StageAwaitingSurname
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingVisitAnswer:
		return "awaiting_visit_answer"
	case StageAwaitingRating:
		return "awaiting_rating"
	case StageAwaitingSurname:
		return "awaiting_surname"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// PendingDoctor is the doctor cached between selection and the end of the flow.
type PendingDoctor struct {
	ID   int64
	Name string
}

type ConversationState struct {
	Stage   Stage
	Pending *PendingDoctor
}

func (s ConversationState) idle() bool {
	return s.Stage == StageIdle && s.Pending == nil
}

func (s *ConversationState) reset() {
	*s = ConversationState{}
}

func (s *ConversationState) awaitVisitAnswer(id int64, name string) {
	s.Stage = StageAwaitingVisitAnswer
	s.Pending = &PendingDoctor{ID: id, Name: name}
}
