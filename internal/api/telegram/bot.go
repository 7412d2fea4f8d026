package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "cat-eye-locator/internal/application"
	"cat-eye-locator/internal/container"
	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/infrastructure/imaging"
)

const (
	msgStart = `🐱 Cat Left-Eye Locator

Send me a cat photo and I'll draw a box around its left eye and give you the coordinates.

/help - how to use`

	msgHelp = `ℹ️ How to use:

1️⃣ Send a photo of a cat (or a jpg/png file)
2️⃣ I look for the left eye
3️⃣ You get the photo with the eye marked and its center in pixels

💡 A clear, frontal cat face works best.`

	msgProcessing      = "⏳ Processing image..."
	msgBusy            = "⏳ Still processing your previous photo, please wait."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgInvalidImage    = "⚠️ That file is not a jpg or png image."
	msgProcessingError = "⚠️ Could not process the image. Please try another photo."
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
	log       logrus.FieldLogger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	return &Bot{
		api:       api,
		container: c,
		log:       log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			// Долгий инференс не должен блокировать другие чаты
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if fileID, name, mime, ok := imageFile(msg); ok {
		b.handleImage(ctx, msg.Chat.ID, fileID, name, mime)
		return
	}

	// Текстовое сообщение (не команда): ждём фото
	b.sendMessage(msg.Chat.ID, app.MsgPrompt)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.resetSession(ctx, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handleImage(ctx context.Context, chatID int64, fileID, name, mime string) {
	log := b.log.WithField("chat_id", chatID)
	sessions := b.container.SessionService

	if _, err := sessions.BeginProcessing(ctx, chatID); err != nil {
		if errors.Is(err, app.ErrSessionBusy) {
			b.sendMessage(chatID, msgBusy)
			return
		}
		log.WithError(err).Error("update session")
		return
	}
	b.sendMessage(chatID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.WithError(err).Error("download photo")
		b.sendMessage(chatID, msgProcessingError)
		b.resetSession(ctx, chatID)
		return
	}

	out, err := b.container.LocatorService.Locate(ctx, entity.NewUpload(data, name, mime))
	if err != nil {
		log.WithError(err).Warn("locate failed")
		b.sendMessage(chatID, errorReply(err))
		b.resetSession(ctx, chatID)
		return
	}

	if out.Found {
		b.sendPhoto(chatID, out.Overlay, resultCaption(out))
	} else {
		b.sendMessage(chatID, "❌ "+out.Message)
	}

	if _, err := sessions.ShowResult(ctx, chatID); err != nil {
		log.WithError(err).Error("update session")
	}
}

func (b *Bot) resetSession(ctx context.Context, chatID int64) {
	if _, err := b.container.SessionService.Reset(ctx, chatID); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("reset session")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return fetchFile(ctx, http.DefaultClient, file.Link(b.api.Token))
}

func fetchFile(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("send message")
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "overlay.png", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("send photo")
	}
}

// imageFile выбирает фото с максимальным разрешением или документ-изображение
func imageFile(msg *tgbotapi.Message) (fileID, name, mime string, ok bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		// Telegram пережимает фото в JPEG
		return photo.FileID, photo.FileUniqueID + ".jpg", "image/jpeg", true
	}

	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, msg.Document.FileName, msg.Document.MimeType, true
	}

	return "", "", "", false
}

func resultCaption(out *app.LocateOutput) string {
	return fmt.Sprintf("%s\n✅ %s", app.OverlayCaption, out.Message)
}

func errorReply(err error) string {
	if errors.Is(err, imaging.ErrInvalidImage) || errors.Is(err, imaging.ErrUnsupportedFormat) {
		return msgInvalidImage
	}
	return msgProcessingError
}
