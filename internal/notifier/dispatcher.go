package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/rs/zerolog"
)

// Observer is told about every delivery attempt
type Observer interface {
	ObserveNotification(channel string, success bool)
}

// Dispatcher fans an event out to every enabled channel
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	observer Observer
	now      func() time.Time
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given channels
func NewDispatcher(logger zerolog.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		now:      time.Now,
		logger:   logger.With().Str("component", "Dispatcher").Logger(),
	}
}

// NewDispatcherFromConfig builds a channel for every enabled section of cfg
func NewDispatcherFromConfig(cfg config.NotificationConfig, httpClient *http.Client, logger zerolog.Logger) *Dispatcher {
	maxSummary := cfg.MaxSummaryChars
	if maxSummary <= 0 {
		maxSummary = config.DefaultNotificationMaxSummaryChars
	}

	var channels []Channel
	if cfg.Telegram.Enabled {
		channels = append(channels, NewTelegramChannel(cfg.Telegram, httpClient, maxSummary, logger))
	}
	if cfg.Slack.Enabled {
		channels = append(channels, NewSlackChannel(cfg.Slack, httpClient, maxSummary, logger))
	}
	if cfg.Discord.Enabled {
		channels = append(channels, NewDiscordChannel(cfg.Discord, httpClient, maxSummary, logger))
	}

	d := NewDispatcher(logger, channels...)
	if cfg.RequestTimeoutSecs > 0 {
		d.timeout = time.Duration(cfg.RequestTimeoutSecs) * time.Second
	}
	return d
}

// WithObserver attaches a delivery observer
func (d *Dispatcher) WithObserver(o Observer) *Dispatcher {
	d.observer = o
	return d
}

// Channels returns the names of the configured channels
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Notify sends event to every channel. A failing channel never prevents the others
// from being attempted. With no channels it returns nil.
func (d *Dispatcher) Notify(ctx context.Context, event models.NotificationEvent) []models.DeliveryResult {
	if len(d.channels) == 0 {
		return nil
	}

	results := make([]models.DeliveryResult, 0, len(d.channels))
	for _, ch := range d.channels {
		err := d.send(ctx, ch, event)
		res := models.DeliveryResult{
			Channel: ch.Name(),
			Success: err == nil,
			SentAt:  d.now(),
		}
		if err != nil {
			res.Err = &common.NotificationDeliveryError{Channel: ch.Name(), Err: err}
			res.Error = res.Err.Error()
			d.logger.Error().Err(err).Str("channel", ch.Name()).Str("url", event.URL).Str("kind", string(event.Kind)).Msg("Notification delivery failed")
		} else {
			d.logger.Info().Str("channel", ch.Name()).Str("url", event.URL).Str("kind", string(event.Kind)).Msg("Notification delivered")
		}
		if d.observer != nil {
			d.observer.ObserveNotification(ch.Name(), res.Success)
		}
		results = append(results, res)
	}
	return results
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, event models.NotificationEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in channel %s: %v", ch.Name(), r)
		}
	}()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return ch.Send(ctx, event)
}
