package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/lelikelen/dashboard-backend/internal/schedule"
	"github.com/lelikelen/dashboard-backend/pkg/db/models"
)

// PromptData carries everything the system prompt embeds. Now is passed in
// explicitly so prompt assembly stays deterministic.
type PromptData struct {
	Inventory    []models.InventoryItem
	PastServices []models.ServiceEvent
	Upcoming     []models.ServiceEvent
	Now          time.Time
}

// BuildSystemPrompt renders the grounding block sent ahead of every
// conversation: persona, bilingual instruction, serialized inventory and
// schedule, today's countdown, and the assistant's responsibilities.
func BuildSystemPrompt(data PromptData) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant for Leli-Kelen, a non-profit organization that serves food to disadvantaged people, elders, and homeless individuals. The organization serves food around 6-7pm in the street and relies on donations of rice, pasta, vegetables, tomato sauce, and other items.\n\n")
	b.WriteString("IMPORTANT: You are bilingual and can communicate fluently in both English and Spanish. Respond in the same language the user writes to you. If they write in Spanish, respond in Spanish. If they write in English, respond in English.\n\n")

	b.WriteString("Current Inventory:\n")
	b.WriteString(inventoryLines(data.Inventory))
	b.WriteString("\n\n")

	b.WriteString("Recent Completed Services (with attendance):\n")
	b.WriteString(pastServiceLines(data.PastServices))
	b.WriteString("\n\n")

	if today := todayServiceLines(data.Upcoming, data.Now); today != "" {
		b.WriteString("TODAY'S SERVICES:\n")
		b.WriteString(today)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No services scheduled for today.\n\n")
	}

	b.WriteString("Upcoming Service Schedule:\n")
	b.WriteString(upcomingLines(data.Upcoming))
	b.WriteString("\n\n")

	b.WriteString(`Your role is to:
1. Answer questions about current inventory levels in English or Spanish
2. Provide information about past services and attendance (typically 100-120 people per service)
3. Provide information about scheduled service days and calculate time remaining
4. Answer if there are services today and how many hours until they start
5. Help coordinate tasks and operations
6. Be warm, compassionate, and supportive in both languages

Always be concise and helpful. Focus on the practical needs of the organization.`)

	return b.String()
}

func inventoryLines(items []models.InventoryItem) string {
	if len(items) == 0 {
		return "No inventory recorded yet."
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s: %s %s", item.Name, item.Quantity.String(), item.Unit))
	}
	return strings.Join(lines, "\n")
}

func pastServiceLines(events []models.ServiceEvent) string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Attendance == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s at %s in %s: %d people attended", ev.Date, ev.Time, ev.Location, *ev.Attendance))
	}
	if len(lines) == 0 {
		return "No past services recorded yet."
	}
	return strings.Join(lines, "\n")
}

func upcomingLines(events []models.ServiceEvent) string {
	if len(events) == 0 {
		return "No upcoming services scheduled."
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("- %s at %s - %s (%s)", ev.Date, ev.Time, ev.Location, ev.Status))
	}
	return strings.Join(lines, "\n")
}

// todayServiceLines reports, for each event dated today, the fractional hours
// until its start, clamped at zero once the start time has passed.
func todayServiceLines(events []models.ServiceEvent, now time.Time) string {
	today := now.Format(schedule.DateLayout)
	lines := []string{}
	for _, ev := range events {
		if ev.Date != today {
			continue
		}
		remaining := HoursUntil(ev, now)
		state := "in progress or completed"
		if remaining > 0 {
			state = fmt.Sprintf("%.1f hours remaining", remaining)
		}
		lines = append(lines, fmt.Sprintf("- TODAY at %s in %s (%s)", ev.Time, ev.Location, state))
	}
	return strings.Join(lines, "\n")
}

// HoursUntil returns the fractional hours from now until the event start,
// clamped at zero.
func HoursUntil(ev models.ServiceEvent, now time.Time) float64 {
	start, err := parseEventStart(ev, now.Location())
	if err != nil {
		return 0
	}
	hours := start.Sub(now).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

func parseEventStart(ev models.ServiceEvent, loc *time.Location) (time.Time, error) {
	value := ev.Date + "T" + ev.Time
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if start, err := time.ParseInLocation(layout, value, loc); err == nil {
			return start, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable event start %q", value)
}
