// Package refresh re-runs the stress engine on a timer for one user, keeps
// their live stress on file and raises a desktop alert when it climbs.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/rpggio/calmmind/internal/assistant"
)

// ContextSource computes the current assistant context for a user.
type ContextSource interface {
	AssistantContext(ctx context.Context, ownerID string) (*assistant.Context, error)
}

// Recorder persists a user's live stress percent.
type Recorder interface {
	RecordLiveStress(ctx context.Context, ownerID string, percent float64) error
}

// Notifier delivers an alert to the user.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier shows alerts through the OS notification center.
type DesktopNotifier struct {
	AppName string
}

// Notify implements Notifier.
func (n DesktopNotifier) Notify(title, message string) error {
	if n.AppName != "" {
		beeep.AppName = n.AppName
	}
	return beeep.Notify(title, message, "")
}

// Options configures a Poller.
type Options struct {
	Owner     string
	Interval  time.Duration
	Threshold float64
	Source    ContextSource
	// Recorder and Notifier are optional.
	Recorder Recorder
	Notifier Notifier
	Logger   *slog.Logger
}

// Poller periodically recomputes one user's stress.
type Poller struct {
	opts Options

	mu   sync.Mutex
	last *assistant.Context
}

// NewPoller validates opts and builds a Poller.
func NewPoller(opts Options) (*Poller, error) {
	if opts.Source == nil {
		return nil, errors.New("refresh: context source is required")
	}
	if opts.Owner == "" {
		return nil, errors.New("refresh: owner is required")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("refresh: interval must be positive, got %s", opts.Interval)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Poller{opts: opts}, nil
}

// Run refreshes immediately and then on every tick until ctx is done.
// Failed refreshes are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.opts.Logger.Warn("stress refresh failed", "owner", p.opts.Owner, "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Refresh recomputes the context once, records it and sends any alert it
// warrants. It returns the alert text, or "" when none was sent.
func (p *Poller) Refresh(ctx context.Context) (string, error) {
	c, err := p.opts.Source.AssistantContext(ctx, p.opts.Owner)
	if err != nil {
		return "", fmt.Errorf("computing stress: %w", err)
	}
	p.mu.Lock()
	prev := p.last
	p.last = c
	p.mu.Unlock()

	if p.opts.Recorder != nil {
		if err := p.opts.Recorder.RecordLiveStress(ctx, p.opts.Owner, c.Percent); err != nil {
			return "", fmt.Errorf("recording stress: %w", err)
		}
	}
	p.opts.Logger.Debug("stress refreshed", "owner", p.opts.Owner, "percent", c.Percent, "label", c.Label)

	msg := alertMessage(prev, c, p.opts.Threshold)
	if msg == "" || p.opts.Notifier == nil {
		return msg, nil
	}
	if err := p.opts.Notifier.Notify("calmmind", msg); err != nil {
		return msg, fmt.Errorf("sending alert: %w", err)
	}
	return msg, nil
}

// Last returns the most recent context, or nil before the first refresh.
func (p *Poller) Last() *assistant.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// alertMessage fires on edges only: crossing the threshold upwards, or the
// overdue count growing.
func alertMessage(prev, cur *assistant.Context, threshold float64) string {
	wasAbove := prev != nil && prev.Percent >= threshold
	if cur.Percent >= threshold && !wasAbove {
		return fmt.Sprintf("Stress is at %.0f%% (%s). %s", cur.Percent, cur.Label, firstOr(cur.Recommendations, "Take a short break."))
	}
	prevOverdue := 0
	if prev != nil {
		prevOverdue = prev.Overdue
	}
	if cur.Overdue > prevOverdue {
		return fmt.Sprintf("%d task(s) overdue. Stress is at %.0f%%.", cur.Overdue, cur.Percent)
	}
	return ""
}

func firstOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}
