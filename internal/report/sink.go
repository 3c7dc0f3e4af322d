package report

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sink publishes a finished report.
type Sink interface {
	Publish(ctx context.Context, r Report) error
}

// FileSink writes the summary and CSV files into Dir.
type FileSink struct {
	Dir    string
	Logger *slog.Logger
}

// Publish implements Sink.
func (s *FileSink) Publish(_ context.Context, r Report) error {
	summary, csvPath, err := WriteFiles(s.Dir, r)
	if err != nil {
		return err
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("report saved", "summary", summary, "csv", csvPath)
	return nil
}

// messageSender is the part of *tgbotapi.BotAPI the sink uses.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink sends a trend digest to a Telegram chat.
type TelegramSink struct {
	api    messageSender
	chatID int64
}

// NewTelegramSink authenticates with the bot token and targets chatID.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramSink{api: api, chatID: chatID}, nil
}

// Publish implements Sink.
func (s *TelegramSink) Publish(ctx context.Context, r Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(s.chatID, FormatDigest(r))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram digest: %w", err)
	}
	return nil
}

// FormatDigest renders r as a short HTML chat message.
func FormatDigest(r Report) string {
	var b strings.Builder
	b.WriteString("📊 <b>Job skills trends</b>\n")
	fmt.Fprintf(&b, "<i>%d postings, %d companies, %d skills tracked</i>\n\n",
		r.Stats.TotalJobs, r.Stats.UniqueCompanies, r.TotalSkills)

	if len(r.Top) == 0 {
		b.WriteString("No skills recorded yet.")
		return b.String()
	}
	for _, row := range r.Top {
		fmt.Fprintf(&b, "%d. <b>%s</b> %d mentions in %d jobs (%.1f/job)\n",
			row.Rank, html.EscapeString(row.SkillName), row.TotalOccurrences, row.TotalJobs, row.AvgPerJob)
	}
	if len(r.Categories) > 0 {
		b.WriteString("\n")
		for _, c := range r.Categories {
			fmt.Fprintf(&b, "• %s: %.1f%%\n", html.EscapeString(c.Name), c.Share)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
