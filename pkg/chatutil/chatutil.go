package chatutil

import (
	"fmt"
	"strings"
	"time"
)

// PresenceWindow — окно, в течение которого пользователь считается онлайн.
// Это эвристика по последней активности, а не реальный heartbeat.
const PresenceWindow = 5 * time.Minute

// ConversationID строит детерминированный ID диалога для пары пользователей.
// Симметричность гарантируется сортировкой: ConversationID(a, b) == ConversationID(b, a).
// Разделитель "_" не встречается в ID пользователей (UUID: hex и дефисы).
func ConversationID(a, b string) string {
	if a < b {
		return a + "_" + b
	}
	return b + "_" + a
}

// IsOnline возвращает true, если последняя активность была строго менее
// PresenceWindow назад. nil (пользователь ни разу не был онлайн) — всегда false.
func IsOnline(lastOnline *time.Time, now time.Time) bool {
	if lastOnline == nil {
		return false
	}
	return now.Sub(*lastOnline) < PresenceWindow
}

// FormatMessageTime форматирует время сообщения для отображения ("2:30 PM").
func FormatMessageTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("3:04 PM")
}

// FormatLastSeen форматирует время последней активности в человекочитаемый вид.
func FormatLastSeen(t *time.Time, now time.Time) string {
	if t == nil {
		return "Never"
	}

	diff := now.Sub(*t)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("1/2/2006")
	}
}

// Initials возвращает инициалы для аватара-заглушки: "John Doe" -> "JD".
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "?"
	}

	first := []rune(parts[0])
	if len(parts) == 1 {
		return strings.ToUpper(string(first[0]))
	}

	last := []rune(parts[len(parts)-1])
	return strings.ToUpper(string(first[0]) + string(last[0]))
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
