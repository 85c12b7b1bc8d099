package telegram

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	"github.com/nguyentranbao-ct/price-tracker/pkg/tmplx"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesData []byte

// Message timestamps are shown in Western Indonesia Time.
var wib = time.FixedZone("WIB", 7*60*60)

type templates struct {
	ChangeLog string `yaml:"change_log"`
}

type messageData struct {
	Timestamp string
	Changes   []models.ChangeRecord
	Total     int
	Hidden    int
	Summary   models.Summary
	SourceURL string
}

// Client sends change notifications to a Telegram chat.
type Client interface {
	Name() string
	Publish(ctx context.Context, changeLog models.ChangeLog) error
	SendMessage(ctx context.Context, text string) error
}

type client struct {
	http       *resty.Client
	enabled    bool
	token      string
	chatID     string
	maxChanges int
	sourceURL  string
	changeLog  *tmplx.Template
}

func NewClient(conf *config.Config) (Client, error) {
	cfg := conf.Telegram
	log := logger.MustNamed("telegram")

	var tmpls templates
	if err := yaml.Unmarshal(templatesData, &tmpls); err != nil {
		return nil, fmt.Errorf("unmarshal telegram templates: %w", err)
	}
	changeLog, err := tmplx.Parse("change_log", tmpls.ChangeLog, tmplx.WithValidate(sampleMessage(), nonEmpty))
	if err != nil {
		return nil, fmt.Errorf("parse change log template: %w", err)
	}

	enabled := cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != ""
	if !enabled {
		log.Infow("telegram notifications disabled")
	}

	// sendMessage is not idempotent; a retry after a lost response posts
	// the same change log twice
	httpClient := util.NewRestyClient().
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(0)

	return &client{
		http:       httpClient,
		enabled:    enabled,
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
		maxChanges: cfg.MaxChanges,
		sourceURL:  conf.Source.URL,
		changeLog:  changeLog,
	}, nil
}

func (c *client) Name() string {
	return "telegram"
}

func (c *client) Publish(ctx context.Context, changeLog models.ChangeLog) error {
	if !c.enabled || len(changeLog.Changes) == 0 {
		return nil
	}
	text, err := c.render(changeLog)
	if err != nil {
		return err
	}
	return c.SendMessage(ctx, text)
}

func (c *client) render(changeLog models.ChangeLog) (string, error) {
	shown := changeLog.Changes
	if c.maxChanges > 0 && len(shown) > c.maxChanges {
		shown = shown[:c.maxChanges]
	}
	return c.changeLog.RenderString(messageData{
		Timestamp: changeLog.Timestamp.In(wib).Format("02 Jan 2006 15:04:05 MST"),
		Changes:   shown,
		Total:     len(changeLog.Changes),
		Hidden:    len(changeLog.Changes) - len(shown),
		Summary:   changeLog.Summary,
		SourceURL: c.sourceURL,
	})
}

func (c *client) SendMessage(ctx context.Context, text string) error {
	if !c.enabled {
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("token", c.token).
		SetBody(map[string]any{
			"chat_id":                  c.chatID,
			"text":                     text,
			"parse_mode":               "Markdown",
			"disable_web_page_preview": true,
		}).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	body := resp.Body()
	if !gjson.GetBytes(body, "ok").Bool() {
		desc := gjson.GetBytes(body, "description").String()
		if desc == "" {
			desc = resp.Status()
		}
		return fmt.Errorf("telegram rejected message: %s", desc)
	}
	return nil
}

func nonEmpty(buf *bytes.Buffer) error {
	if buf.Len() == 0 {
		return errors.New("rendered message is empty")
	}
	return nil
}

func sampleMessage() messageData {
	return messageData{
		Timestamp: "01 Mar 2024 10:00:00 WIB",
		Changes: []models.ChangeRecord{{
			Category:   "TELKOMSEL",
			Code:       "S10",
			Price:      10_800,
			ChangeType: models.ChangeBoth,
			PriceChange: &models.PriceChange{
				Old: 10_600, New: 10_800, Delta: 200,
				Direction: models.PriceIncrease, Percent: 1.89,
			},
			StatusChange: &models.StatusChange{
				Old: models.ProductStatus{Text: "gangguan", Status: models.StatusDisturbance},
				New: models.ProductStatus{Text: "open", Available: true, Status: models.StatusOpen},
			},
		}},
		Total: 1,
	}
}
