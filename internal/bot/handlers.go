package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coalition_site/internal/countdown"
	"coalition_site/internal/lists"
	"coalition_site/internal/model"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to the Coalition bot!

Browse the coalition's events, news, programs and partner countries, and follow live countdowns to upcoming events.

Quick start:
1. /events - upcoming and past events
2. /coalition - partner countries by region
3. /countdown <event> - live countdown to an event

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Lists:
/events - events, upcoming first
/news - news and stories
/programs - programs by category
/coalition - partner countries by region
/show <list> <uid> - full details of one item

Use the buttons under a list to filter, sort and page through it.

Countdowns:
/countdown <event_uid> - live countdown to an event
/countdown <days> <hours> <minutes> <seconds> [label] - countdown from now
/countdowns - show your countdowns
/stop <id> - stop a countdown`)
}

func (b *Bot) handleList(ctx context.Context, chatID int64, name string) {
	page, err := b.pages.List(ctx, name, lists.Query{}, lists.Action{})
	if err != nil {
		b.reply(chatID, "Content is unavailable right now. Please try again later.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, FormatPage(page))
	msg.DisableWebPagePreview = true
	if !page.Empty() {
		msg.ReplyMarkup = Keyboard(page)
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send list", "chat_id", chatID, "list", name, "error", err)
		return
	}
	b.saveSession(ctx, chatID, sent.MessageID, page)
}

func (b *Bot) handleShow(ctx context.Context, chatID int64, args string) {
	name, uid, err := ParseShowArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	page, err := b.pages.Detail(ctx, name, uid)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Nothing found for %s %q.", name, uid))
		return
	}
	b.reply(chatID, FormatDetail(page))
}

func (b *Bot) handleCountdown(ctx context.Context, chatID int64, args string) {
	parsed, err := ParseCountdownArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	now := b.now()
	label := parsed.Label
	target := parsed.Offset.Target(now)
	if parsed.UID != "" {
		event, err := b.pages.Event(ctx, parsed.UID)
		if err != nil {
			b.reply(chatID, fmt.Sprintf("Event %q not found.", parsed.UID))
			return
		}
		if event.CountdownTo == nil {
			b.reply(chatID, fmt.Sprintf("Event %q has no date.", parsed.UID))
			return
		}
		target = *event.CountdownTo
		label = event.Card.Title
	}
	target = target.Truncate(time.Second)

	state := countdown.Compute(target, now)
	if state.Completed {
		b.reply(chatID, "That moment has already passed.")
		return
	}

	c := &model.Countdown{ChatID: chatID, Label: label, Target: target}
	if err := b.store.CreateCountdown(ctx, c); err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to save countdown: %v", err))
		return
	}

	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, FormatCountdown(c, state)))
	if err != nil {
		b.log.Error("send countdown", "chat_id", chatID, "countdown_id", c.ID, "error", err)
		_ = b.store.DeleteCountdown(ctx, c.ID)
		return
	}
	if err := b.store.SetCountdownMessage(ctx, c.ID, sent.MessageID); err != nil {
		b.log.Error("set countdown message", "countdown_id", c.ID, "error", err)
	}
}

func (b *Bot) handleCountdowns(ctx context.Context, chatID int64) {
	cs, err := b.store.ListCountdowns(ctx, chatID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatCountdownList(cs, b.now()))
}

func (b *Bot) handleStop(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /stop <id>")
		return
	}

	c, err := b.store.GetCountdown(ctx, id)
	if err != nil || c.ChatID != chatID {
		b.reply(chatID, fmt.Sprintf("Countdown #%d not found.", id))
		return
	}

	if err := b.store.DeleteCountdown(ctx, id); err != nil {
		b.reply(chatID, fmt.Sprintf("Error deleting countdown: %v", err))
		return
	}
	if c.MessageID != 0 && !c.Completed {
		if err := b.EditMessage(chatID, c.MessageID, FormatStopped(c)); err != nil {
			b.log.Warn("edit stopped countdown", "countdown_id", id, "error", err)
		}
	}
	b.reply(chatID, fmt.Sprintf("Countdown #%d stopped.", id))
}
