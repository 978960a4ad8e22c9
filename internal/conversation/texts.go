package conversation

import (
	"fmt"
	"strings"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

// User-facing texts. All replies are Russian; the flow itself is
// language-agnostic.
const (
	textFirstNamePrompt  = "Введите имя."
	textLastNamePrompt   = "Введите фамилию."
	textMiddleNamePrompt = "Введите отчество."

	textFirstNameShort  = "Пожалуйста, укажите имя полностью."
	textLastNameShort   = "Пожалуйста, укажите фамилию полностью."
	textMiddleNameShort = "Пожалуйста, укажите отчество полностью."

	textRegionInvalid = "Введите номер или название региона из списка."

	textSelectionEmpty      = "Укажите хотя бы один номер отдела."
	textSelectionBadFormat  = "Введите номера отделов через запятую, например 1,3,2."
	textSelectionOutOfRange = "Указан номер вне диапазона списка. Попробуйте снова."

	textCatalogEmpty = "Отделы не найдены в системе. Свяжитесь с администратором для уточнения."

	textAdditionalPrompt = "Подать заявку на доступ к дополнительным отделам?"

	textCancelled        = "❌ Заполнение заявки отменено."
	textOperationAborted = "Операция отменена."

	textRetryLater = "Произошла ошибка. Попробуйте позже."
	textUseButtons = "Пожалуйста, используйте кнопки под сообщением."
	textNoSession  = "Используйте /post_invate, чтобы подать заявку, или /help для справки."

	textAlreadyActive = "У вас уже есть активная заявка. Проверьте статус командой /status."
	textNoRequests    = "📭 Заявок не найдено."

	timeLayout = "02.01.2006 15:04"
	dash       = "—"
)

// orDash substitutes the em-dash placeholder for empty values.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return dash
	}
	return s
}

// joinOr renders a name list, falling back to a phrase when empty.
func joinOr(names []string, fallback string) string {
	if len(names) == 0 {
		return fallback
	}
	return strings.Join(names, ", ")
}

// numberedList renders "1. A\n2. B\n..." for prompt bodies.
func numberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}

// regionPromptText renders the region selection prompt.
func regionPromptText(options []string) string {
	return "Выберите регион, отправив номер или название из списка:\n\n" + numberedList(options)
}

// departmentsPromptText renders the department selection prompt.
func departmentsPromptText(names []string) string {
	return "Выберите отделы, указав номера через запятую (например 1,3,2).\n\n" + numberedList(names)
}

// confirmationText renders the selected departments recap.
func confirmationText(selected []string) string {
	return fmt.Sprintf("Вы выбрали отделы: %s. Подтвердить?", joinOr(selected, dash))
}

// activeRequestText summarizes an existing new/pending request shown when
// the requester tries to start a second intake.
func activeRequestText(req *domain.Request) string {
	lines := []string{
		"⚠️ У вас уже есть активная заявка.",
		"",
		fmt.Sprintf("📋 Заявка №%d", req.ID),
		fmt.Sprintf("🌍 Регион: %s", orDash(req.Region)),
		fmt.Sprintf("Отделы: %s", joinOr(req.Departments, "не указаны")),
		fmt.Sprintf("Создана: %s", req.CreatedAt.Format(timeLayout)),
		"",
		"Проверьте статус командой /status",
	}
	return strings.Join(lines, "\n")
}

// additionalOfferText renders the additional-departments offer. The
// department list always comes from the directory of record (the person's
// currently assigned departments), regardless of which entry path offered
// the branch.
func additionalOfferText(header, region string, assigned []string) string {
	lines := []string{
		header,
		fmt.Sprintf("🌍 Регион: %s", orDash(region)),
		fmt.Sprintf("📁 Текущие отделы: %s", joinOr(assigned, "не указаны")),
		"",
		textAdditionalPrompt,
	}
	return strings.Join(lines, "\n")
}

// processedRequestText summarizes an already-processed request after a
// rejected duplicate submission.
func processedRequestText(req *domain.Request) string {
	lines := []string{
		"✅ Ваша заявка уже обработана.",
		"",
		fmt.Sprintf("📋 Заявка №%d", req.ID),
		fmt.Sprintf("🌍 Регион: %s", orDash(req.Region)),
		fmt.Sprintf("Отделы: %s", joinOr(req.Departments, "не указаны")),
		fmt.Sprintf("Дата: %s", req.CreatedAt.Format(timeLayout)),
	}
	return strings.Join(lines, "\n")
}

// createdText renders the success reply, including the informational list
// of department names that could not be resolved.
func createdText(res domain.CreateResult, isAdditional bool, region string, selected []string) string {
	lines := []string{fmt.Sprintf("📝 Заявка №%d успешно сохранена.", res.RequestID)}
	if isAdditional {
		lines = append(lines, "➕ Дополнительная заявка на новые отделы.")
	}
	if region != "" {
		lines = append(lines, fmt.Sprintf("🌍 Регион: %s", region))
	}
	if len(selected) > 0 {
		lines = append(lines, "📁 Отделы: "+strings.Join(selected, ", "))
	}
	if len(res.Missing) > 0 {
		lines = append(lines, "⚠️ Не найдены отделы: "+strings.Join(res.Missing, ", "))
	}
	lines = append(lines, "", "Проверить статус можно командой /status")
	return strings.Join(lines, "\n")
}

// statusText renders the /status reply for the latest request.
func statusText(req *domain.Request) string {
	lines := []string{
		fmt.Sprintf("📋 Статус вашей заявки №%d", req.ID),
		fmt.Sprintf("Статус: %s", req.Status.Display()),
		fmt.Sprintf("🌍 Регион: %s", orDash(req.Region)),
		fmt.Sprintf("Отделы: %s", joinOr(req.Departments, "не указаны")),
	}
	if req.IsAdditional {
		lines = append(lines, "➕ Тип: Дополнительная заявка")
	}
	switch req.Status {
	case domain.StatusPending:
		confirmed := make(map[string]struct{}, len(req.ProcessedDepartments))
		for _, name := range req.ProcessedDepartments {
			confirmed[name] = struct{}{}
		}
		var waiting []string
		for _, name := range req.Departments {
			if _, ok := confirmed[name]; !ok {
				waiting = append(waiting, name)
			}
		}
		if len(req.ProcessedDepartments) > 0 {
			lines = append(lines, "✅ Уже подтвердили: "+strings.Join(req.ProcessedDepartments, ", "))
		}
		if len(waiting) > 0 {
			lines = append(lines, "⏳ Ожидаем: "+strings.Join(waiting, ", "))
		}
	case domain.StatusProcessed:
		lines = append(lines, "🎉 Все отделы подтвердили заявку!")
	}
	lines = append(lines, "", fmt.Sprintf("🕒 Создана: %s", req.CreatedAt.Format(timeLayout)))
	return strings.Join(lines, "\n")
}
