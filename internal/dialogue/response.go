package dialogue

// Response is everything the chat front end should send back for one input.
type Response struct {
	Messages []Message `json:"messages"`
}

// Message is one outgoing chat message.
type Message struct {
	Text string `json:"text"`
	// Keyboard replaces the reply keyboard; nil leaves it as it is.
	Keyboard [][]string `json:"keyboard,omitempty"`
	// Inline buttons attached to this message.
	Inline [][]InlineButton `json:"inline,omitempty"`
	// Edit asks the front end to edit the message the action came from
	// instead of sending a new one.
	Edit bool `json:"edit,omitempty"`
}

// InlineButton carries either an Action payload or a URL.
type InlineButton struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

func reply(msgs ...Message) Response {
	return Response{Messages: msgs}
}

func text(s string) Message {
	return Message{Text: s}
}

// Menu labels.
const (
	LabelSchedule = "Расписание врачей"
	LabelToday    = "Сегодняшнее расписание"
	LabelContacts = "Контакты поликлиники"
	LabelHelp     = "Помощь"

	AnswerYes = "Да"
	AnswerNo  = "Нет"
)

var (
	mainKeyboard = [][]string{
		{LabelSchedule, LabelToday},
		{LabelContacts, LabelHelp},
	}
	visitKeyboard  = [][]string{{AnswerYes, AnswerNo}}
	ratingKeyboard = [][]string{{"1", "2", "3"}, {"4", "5"}}
)

// MainKeyboard returns a copy of the main menu layout.
func MainKeyboard() [][]string { return cloneKeyboard(mainKeyboard) }

// VisitKeyboard returns the two-button visit confirmation layout.
func VisitKeyboard() [][]string { return cloneKeyboard(visitKeyboard) }

// RatingKeyboard returns the five-button rating layout.
func RatingKeyboard() [][]string { return cloneKeyboard(ratingKeyboard) }

func cloneKeyboard(k [][]string) [][]string {
	out := make([][]string, len(k))
	for i, row := range k {
		out[i] = append([]string(nil), row...)
	}
	return out
}
