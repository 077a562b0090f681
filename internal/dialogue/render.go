package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/godilite/clinic-assistant/internal/roster"
	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
)

const (
	DefaultContacts = "📞 Контактный центр: +7 (812) 246-55-55\n" +
		"🏥 Адрес: пр. Металлистов, д. 56\n" +
		"🕒 Часы работы: пн-пт 8:00-20:00, сб 9:00-15:00\n" +
		"🌐 Сайт: https://p17-spb.ru/"

	msgChooseDoctor      = "Выберите врача из списка:"
	msgChooseDoctorToday = "Выберите врача для просмотра расписания на сегодня:"
	msgVisitQuestion     = "Вы посещали этого врача? Оцените качество приема:"
	msgVisitRetry        = "Пожалуйста, ответьте 'Да' или 'Нет'"
	msgRatingPrompt      = "Пожалуйста, оцените качество приема (от 1 до 5):"
	msgRatingRetry       = "Пожалуйста, выберите оценку от 1 до 5"
	msgThanksNotVisited  = "Спасибо за ответ! Если посетите врача, оцените качество приема."
	msgThanksRated       = "Спасибо за вашу оценку! Она поможет улучшить качество обслуживания."
	msgSaveFailed        = "Не удалось сохранить ответ. Попробуйте еще раз."
	msgDoctorNotFound    = "Врач не найден"
	msgRosterFailed      = "Не удалось получить список врачей. Попробуйте позже."
	msgScheduleFailed    = "Не удалось получить расписание врача. Попробуйте позже."
	msgRosterEmpty       = "Список врачей пока пуст."
	msgSurnamePrompt     = "Введите фамилию врача:"
	msgSurnameNotFound   = "Врачи с такой фамилией не найдены. Попробуйте еще раз."
	msgSearchResults     = "Найденные врачи:"
	msgUnrecognized      = "Извините, я не понял ваш запрос. Пожалуйста, используйте кнопки меню."
	msgUnknownAction     = "Эта кнопка больше не работает. Откройте список врачей заново."
	msgCancelled         = "Хорошо, оценку можно оставить позже."
	msgBookingHint       = "Вы можете записаться на прием через Портал Горздрав:"
	msgBookingButton     = "Записаться на прием через Горздрав"
	msgNoRatingsYet      = "⭐ Оценок пока нет"

	buttonPrev   = "◀ Назад"
	buttonNext   = "Вперед ▶"
	buttonSearch = "Найти по фамилии"
)

func greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "пациент"
	}
	return fmt.Sprintf("Здравствуйте, %s!\n"+
		"Я - виртуальный помощник поликлиники. Чем могу помочь?\n\n"+
		"Выберите нужный вариант из меню ниже:\n"+
		"- %s\n- %s\n- %s", name, LabelSchedule, LabelToday, LabelContacts)
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// statsLine renders the rating summary; unavailable stats render nothing.
func statsLine(stats *service.DoctorRatingStats) string {
	if stats == nil {
		return ""
	}
	if stats.RatingCount == 0 || stats.AvgRating == nil {
		return msgNoRatingsYet
	}
	return fmt.Sprintf("⭐ Средняя оценка: %s (на основе %d оценок)", formatAverage(*stats.AvgRating), stats.RatingCount)
}

func doctorHeader(name, specialization string) string {
	return fmt.Sprintf("👨‍⚕️ Врач: %s\n📌 Специализация: %s", name, specialization)
}

func detailText(d schedule.Doctor, stats *service.DoctorRatingStats) string {
	var b strings.Builder
	b.WriteString(doctorHeader(d.Name, d.Specialization))
	b.WriteString("\n\n📅 Расписание:")
	for day := schedule.Monday; day <= schedule.Sunday; day++ {
		fmt.Fprintf(&b, "\n%s: %s", day.Label(), d.Hours.On(day))
	}
	if line := statsLine(stats); line != "" {
		b.WriteString("\n\n")
		b.WriteString(line)
	}
	return b.String()
}

func todayText(t schedule.TodaySchedule) string {
	return fmt.Sprintf("%s\n\n📅 Сегодня (%s): %s", doctorHeader(t.Name, t.Specialization), t.Day.Key(), t.Hours)
}

func bookingButtons(url string) [][]InlineButton {
	if url == "" {
		return nil
	}
	return [][]InlineButton{{{Text: msgBookingButton, URL: url}}}
}

func withBooking(body, url string) Message {
	if url == "" {
		return text(body)
	}
	return Message{Text: body + "\n\n" + msgBookingHint, Inline: bookingButtons(url)}
}

// rosterMode decides what a doctor button leads to.
type rosterMode int

const (
	rosterDetail rosterMode = iota
	rosterToday
)

func (m rosterMode) doctorAction(id int64) Action {
	if m == rosterToday {
		return Action{Kind: ActionTodayDoctor, Arg: id}
	}
	return Action{Kind: ActionSelectDoctor, Arg: id}
}

func (m rosterMode) pageAction(page int) Action {
	if m == rosterToday {
		return Action{Kind: ActionTodayPage, Arg: int64(page)}
	}
	return Action{Kind: ActionRosterPage, Arg: int64(page)}
}

func doctorButton(d schedule.Doctor, a Action) InlineButton {
	return InlineButton{Text: fmt.Sprintf("%s (%s)", d.Name, d.Specialization), Action: a.Data()}
}

// doctorRows lays doctor buttons out two per row.
func doctorRows(doctors []schedule.Doctor, mode rosterMode) [][]InlineButton {
	var rows [][]InlineButton
	for i := 0; i < len(doctors); i += 2 {
		row := []InlineButton{doctorButton(doctors[i], mode.doctorAction(doctors[i].ID))}
		if i+1 < len(doctors) {
			row = append(row, doctorButton(doctors[i+1], mode.doctorAction(doctors[i+1].ID)))
		}
		rows = append(rows, row)
	}
	return rows
}

func rosterMarkup(p roster.Page, mode rosterMode) [][]InlineButton {
	rows := doctorRows(p.Doctors, mode)

	var nav []InlineButton
	if p.HasPrev {
		nav = append(nav, InlineButton{Text: buttonPrev, Action: mode.pageAction(p.Number - 1).Data()})
	}
	if p.HasNext {
		nav = append(nav, InlineButton{Text: buttonNext, Action: mode.pageAction(p.Number + 1).Data()})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if mode == rosterDetail {
		rows = append(rows, []InlineButton{{Text: buttonSearch, Action: Action{Kind: ActionSearchBySurname}.Data()}})
	}
	return rows
}
