// Package notifier pushes budget alerts to users on a cron schedule.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ledgerbot/internal/format"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/services"
)

// Sender delivers a message to a conversation.
type Sender interface {
	Notify(ctx context.Context, conversationID, text string) error
}

// RunStats summarizes one notifier run.
type RunStats struct {
	Checked  int
	Notified int
	Failed   int
}

// Notifier checks every notifiable user's budgets and sends a digest of the alerts.
type Notifier struct {
	chats   services.ChatServicer
	budgets services.BudgetServicer
	fmt     *format.Formatter
	sender  Sender
	cron    *cron.Cron
	log     *zap.SugaredLogger
}

// New creates a Notifier whose schedule is interpreted in loc.
func New(chats services.ChatServicer, budgets services.BudgetServicer, f *format.Formatter, sender Sender, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		chats:   chats,
		budgets: budgets,
		fmt:     f,
		sender:  sender,
		cron:    cron.New(cron.WithLocation(loc)),
		log:     logger.Named("notifier"),
	}
}

// Start schedules RunOnce with a standard five-field cron spec and starts the scheduler.
func (n *Notifier) Start(schedule string) error {
	_, err := n.cron.AddFunc(schedule, func() {
		stats, err := n.RunOnce(context.Background())
		if err != nil {
			n.log.Errorw("budget alert run failed", "error", err)
			return
		}
		n.log.Infow("budget alert run finished",
			"checked", stats.Checked, "notified", stats.Notified, "failed", stats.Failed)
	})
	if err != nil {
		return fmt.Errorf("invalid alert schedule %q: %w", schedule, err)
	}
	n.cron.Start()
	n.log.Infof("Budget alerts scheduled at %q", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (n *Notifier) Stop() {
	<-n.cron.Stop().Done()
}

// RunOnce checks all notifiable users once. A failure for one user is logged
// and counted; it does not stop the run.
func (n *Notifier) RunOnce(ctx context.Context) (RunStats, error) {
	var stats RunStats

	links, err := n.chats.ListNotifiable()
	if err != nil {
		return stats, err
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Checked++

		alerts, err := n.budgets.GetBudgetAlerts(link.UserID)
		if err != nil {
			stats.Failed++
			n.log.Errorw("failed to compute budget alerts", "user_id", link.UserID, "error", err)
			continue
		}
		if len(alerts) == 0 {
			continue
		}

		if err := n.sender.Notify(ctx, link.ConversationID, n.fmt.AlertDigest(alerts)); err != nil {
			stats.Failed++
			n.log.Warnw("failed to deliver budget alerts", "user_id", link.UserID, "error", err)
			continue
		}
		stats.Notified++
	}
	return stats, nil
}
