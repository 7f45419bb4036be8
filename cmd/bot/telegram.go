package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	edugo "github.com/EduGo2025Bot/telegram-bot-edugo"

	tele "gopkg.in/telebot.v3"
)

// telegramClient implements the engine's ChatClient capability over the
// Telegram Bot API.
type telegramClient struct {
	bot *tele.Bot
}

func (tc *telegramClient) SendText(chatID int64, text string) error {
	_, err := tc.bot.Send(tele.ChatID(chatID), text)
	return err
}

func (tc *telegramClient) SendQuestion(chatID int64, text string, options []edugo.Button) error {
	keyboard := make([][]tele.InlineButton, 0, len(options)+1)
	for _, opt := range options {
		keyboard = append(keyboard, []tele.InlineButton{{Text: opt.Text, Data: opt.Token}})
	}
	keyboard = append(keyboard, []tele.InlineButton{{Text: "⏭️ Skip", Data: edugo.TokenSkip}})

	_, err := tc.bot.Send(tele.ChatID(chatID), text, &tele.ReplyMarkup{InlineKeyboard: keyboard})
	return err
}

func (tc *telegramClient) SendChoice(chatID int64, text string, options []edugo.Button) error {
	row := make([]tele.InlineButton, 0, len(options))
	for _, opt := range options {
		row = append(row, tele.InlineButton{Text: opt.Text, Data: opt.Token})
	}
	_, err := tc.bot.Send(tele.ChatID(chatID), text, &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{row},
	})
	return err
}

func (tc *telegramClient) SendMenu(chatID int64, text string, choices []string) error {
	row := make([]tele.ReplyButton, 0, len(choices))
	for _, c := range choices {
		row = append(row, tele.ReplyButton{Text: c})
	}
	_, err := tc.bot.Send(tele.ChatID(chatID), text, &tele.ReplyMarkup{
		ReplyKeyboard:  [][]tele.ReplyButton{row},
		ResizeKeyboard: true,
	})
	return err
}

func (tc *telegramClient) LockButtons(ref edugo.MessageRef) error {
	_, err := tc.bot.EditReplyMarkup(storedMessage(ref), nil)
	return err
}

func (tc *telegramClient) EditText(ref edugo.MessageRef, text string) error {
	_, err := tc.bot.Edit(storedMessage(ref), text)
	return err
}

func storedMessage(ref edugo.MessageRef) tele.Editable {
	return &tele.StoredMessage{
		MessageID: strconv.Itoa(ref.MessageID),
		ChatID:    ref.ChatID,
	}
}

// inboundDocument wraps a Telegram document as the engine's Document, with
// a fetch handle that downloads the file only when the engine asks for it.
func inboundDocument(bot *tele.Bot, doc *tele.Document) edugo.Document {
	return edugo.Document{
		FileName: doc.FileName,
		Size:     int64(doc.FileSize),
		Fetch: func(ctx context.Context, dir string) (string, error) {
			path := filepath.Join(dir, filepath.Base(doc.FileName))
			if err := bot.Download(&doc.File, path); err != nil {
				return "", fmt.Errorf("telegram download failed: %w", err)
			}
			return path, nil
		},
	}
}
