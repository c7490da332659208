package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coalition_site/internal/countdown"
	"coalition_site/internal/listing"
	"coalition_site/internal/lists"
	"coalition_site/internal/model"
	"coalition_site/internal/site"
)

const (
	statusRunning  = "running"
	statusFinished = "finished"

	maxDots     = 8
	sortsPerRow = 3
)

// FormatPage renders a list window as message text.
func FormatPage(p lists.Page) string {
	var b strings.Builder
	b.WriteString(p.Title)
	if f, s := selectedLabel(p.Filters), selectedLabel(p.Sorts); f != "" || s != "" {
		fmt.Fprintf(&b, " [%s]", strings.Join(nonEmpty(f, s), ", "))
	}
	b.WriteString("\n")

	if p.Empty() {
		b.WriteString("\n")
		b.WriteString(p.EmptyMsg)
		return b.String()
	}

	unit := "Slide"
	if p.Mode == listing.ModePage {
		unit = "Page"
	}
	fmt.Fprintf(&b, "%s %d of %d (%d items)\n", unit, p.Index+1, p.Total, p.Matched)

	for _, c := range p.Cards {
		b.WriteString("\n")
		b.WriteString(FormatCard(p.Name, c))
	}
	return b.String()
}

// FormatCard renders one list entry.
func FormatCard(list string, c model.Card) string {
	var b strings.Builder
	b.WriteString(c.Title)
	if meta := strings.Join(nonEmpty(c.DateLabel, c.Badge), " | "); meta != "" {
		fmt.Fprintf(&b, "\n   %s", meta)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "\n   %s", c.Summary)
	}
	fmt.Fprintf(&b, "\n   /show %s %s\n", list, c.ID)
	return b.String()
}

// FormatDetail renders the full view of one item.
func FormatDetail(p *site.DetailPage) string {
	d := p.Detail
	var b strings.Builder
	b.WriteString(d.Card.Title)
	if d.Card.Badge != "" {
		fmt.Fprintf(&b, " [%s]", d.Card.Badge)
	}
	b.WriteString("\n")
	if d.DateLabel != "" {
		fmt.Fprintf(&b, "Date: %s\n", d.DateLabel)
	}
	if d.TimeLabel != "" {
		fmt.Fprintf(&b, "Time: %s\n", d.TimeLabel)
	}
	if d.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", d.Location)
	}
	for _, f := range d.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	if d.Body != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Body)
	}
	if d.CountdownTo != nil {
		fmt.Fprintf(&b, "\nStart a live countdown: /countdown %s\n", d.Card.ID)
	}
	if p.Related != nil && len(p.Related.Cards) > 0 {
		fmt.Fprintf(&b, "\n%s:\n", p.Related.Title)
		for _, c := range p.Related.Cards {
			fmt.Fprintf(&b, "- %s  /show %s %s\n", c.Title, p.Related.Name, c.ID)
		}
	}
	return b.String()
}

// FormatCountdown renders a countdown message.
func FormatCountdown(c *model.Countdown, s countdown.State) string {
	title := countdownTitle(c)
	if s.Completed {
		return fmt.Sprintf("%s\nThe countdown has finished.", title)
	}
	parts := make([]string, 0, 4)
	for _, u := range countdown.Units(s) {
		parts = append(parts, u.Value+" "+u.Label)
	}
	return fmt.Sprintf("%s\n%s\nUntil %s", title, strings.Join(parts, " : "),
		s.Target.UTC().Format("Jan 2, 2006 3:04 PM UTC"))
}

// FormatCountdownList formats the countdowns of a chat.
func FormatCountdownList(cs []model.Countdown, now time.Time) string {
	if len(cs) == 0 {
		return "You have no countdowns. Use /countdown to start one."
	}
	var b strings.Builder
	b.WriteString("Your countdowns:\n")
	for i := range cs {
		c := &cs[i]
		status := statusRunning
		s := countdown.Compute(c.Target, now)
		if c.Completed || s.Completed {
			status = statusFinished
		}
		fmt.Fprintf(&b, "\n#%d %s [%s]\n", c.ID, countdownTitle(c), status)
		if status == statusRunning {
			fmt.Fprintf(&b, "   %s left\n", countdown.String(s))
		}
	}
	return b.String()
}

// FormatStopped renders the final text of a countdown stopped with /stop.
func FormatStopped(c *model.Countdown) string {
	return countdownTitle(c) + "\nCountdown stopped."
}

func countdownTitle(c *model.Countdown) string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("Countdown #%d", c.ID)
}

// Keyboard builds the inline controls of a list message: filter and sort
// choices, previous/next buttons and one dot per window.
func Keyboard(p lists.Page) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if len(p.Filters) > 1 {
		rows = append(rows, choiceRows(p.Filters, "f:", 3)...)
	}
	if len(p.Sorts) > 1 {
		rows = append(rows, choiceRows(p.Sorts, "s:", sortsPerRow)...)
	}

	if p.Total > 1 {
		prev := tgbotapi.NewInlineKeyboardButtonData("< Prev", "noop")
		if p.CanPrev {
			prev = tgbotapi.NewInlineKeyboardButtonData("< Prev", "p")
		}
		next := tgbotapi.NewInlineKeyboardButtonData("Next >", "noop")
		if p.CanNext {
			next = tgbotapi.NewInlineKeyboardButtonData("Next >", "n")
		}
		pos := tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", p.Index+1, p.Total), "noop")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(prev, pos, next))

		if p.Total <= maxDots {
			var dots []tgbotapi.InlineKeyboardButton
			for _, i := range p.Windows() {
				label := "o"
				if i == p.Index {
					label = "*"
				}
				dots = append(dots, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("j:%d", i)))
			}
			rows = append(rows, dots)
		}
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func choiceRows(choices []lists.Choice, prefix string, perRow int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range choices {
		label := c.Label
		if c.Selected {
			label = "> " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, prefix+c.ID))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func selectedLabel(choices []lists.Choice) string {
	for _, c := range choices {
		if c.Selected {
			return c.Label
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
