package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coalition_site/internal/lists"
	"coalition_site/internal/model"
	"coalition_site/internal/storage"
)

const (
	cmdShow      = "show"
	cmdCountdown = "countdown"
	cmdStop      = "stop"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	action, ok := ParseCallback(cb.Data)
	if !ok {
		b.answer(cb.ID, "")
		return
	}

	b.log.Info("callback",
		"data", cb.Data,
		"chat_id", chatID,
		"message_id", messageID,
		"user_id", cb.From.ID,
		"username", cb.From.UserName,
	)

	sess, err := b.store.GetSession(ctx, chatID, messageID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			b.log.Error("get session", "chat_id", chatID, "message_id", messageID, "error", err)
		}
		b.answer(cb.ID, "This list has expired. Send the command again.")
		return
	}

	q := lists.Query{Filter: sess.Filter, Sort: sess.Sort, Index: sess.Index}
	page, err := b.pages.List(ctx, sess.List, q, action)
	if err != nil {
		b.answer(cb.ID, "Content is unavailable right now.")
		return
	}
	b.answer(cb.ID, "")

	if page.Query == q {
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, FormatPage(page), Keyboard(page))
	edit.DisableWebPagePreview = true
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("edit list message", "chat_id", chatID, "message_id", messageID, "error", err)
		return
	}

	b.saveSession(ctx, chatID, messageID, page)
}

func (b *Bot) saveSession(ctx context.Context, chatID int64, messageID int, page lists.Page) {
	sess := &model.ListSession{
		ChatID:    chatID,
		MessageID: messageID,
		List:      page.Name,
		Filter:    page.Query.Filter,
		Sort:      page.Query.Sort,
		Index:     page.Query.Index,
	}
	if err := b.store.SaveSession(ctx, sess); err != nil {
		b.log.Error("save session", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}
