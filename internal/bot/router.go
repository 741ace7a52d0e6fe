// Package bot routes chat events to commands, menu actions and the
// guided-input flows, and turns the results into replies.
package bot

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"ledgerbot/internal/dialog"
	"ledgerbot/internal/format"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/models"
	"ledgerbot/internal/services"
)

const recentTransactionsLimit = 10

// Services are the read and write services behind the menu actions.
type Services struct {
	Users        services.UserServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Analytics    services.AnalyticsServicer
	Reports      services.ReportServicer
	Chats        services.ChatServicer
}

// Router is the single entry point for chat events, shared by all transports.
type Router struct {
	machine *dialog.Machine
	svc     Services
	fmt     *format.Formatter
	loc     *time.Location
	now     func() time.Time
	log     *zap.SugaredLogger
}

// NewRouter creates a Router. loc decides which calendar month "this month" is.
func NewRouter(machine *dialog.Machine, svc Services, f *format.Formatter, loc *time.Location) *Router {
	if loc == nil {
		loc = time.UTC
	}
	return &Router{
		machine: machine,
		svc:     svc,
		fmt:     f,
		loc:     loc,
		now:     time.Now,
		log:     logger.Named("bot"),
	}
}

// Dispatch handles one event and returns the replies to deliver, in order.
func (r *Router) Dispatch(ev dialog.Event) []dialog.Reply {
	if !ev.Type.Valid() {
		r.log.Warnw("dropping event of unknown type", "type", ev.Type)
		return nil
	}
	target := dialog.TargetFor(ev)

	user, created, err := r.svc.Users.ResolveUser(nil, ev.ExternalID, ev.Profile)
	if err != nil {
		r.log.Errorw("failed to resolve user", "external_id", ev.ExternalID, "error", err)
		return []dialog.Reply{r.failure(target)}
	}
	if err := r.svc.Chats.RecordActivity(user.ID, ev.ConversationID, r.now()); err != nil {
		r.log.Warnw("failed to record chat activity", "user_id", user.ID, "error", err)
	}

	if ev.Type == dialog.EventText {
		text := strings.TrimSpace(ev.Text)
		if strings.HasPrefix(text, "/") {
			return r.command(ev, user, created, text)
		}
		if token, ok := menuToken(text); ok {
			return r.menu(ev, user, token, target)
		}
	}
	if ev.Type == dialog.EventOption && isMenuToken(ev.Option) {
		return r.menu(ev, user, ev.Option, target)
	}

	if res, ok := r.machine.Handle(ev); ok {
		replies := []dialog.Reply{res.Reply}
		if res.Outcome.Terminal() {
			replies = append(replies, r.menuReply(dialog.TargetNew, format.ChooseAction))
		}
		return replies
	}

	if ev.Type == dialog.EventCancel || ev.Option == dialog.TokenCancel {
		return []dialog.Reply{r.menuReply(target, format.Cancelled)}
	}
	return []dialog.Reply{r.menuReply(dialog.TargetNew, format.ChooseAction)}
}

func (r *Router) command(ev dialog.Event, user *models.User, created bool, text string) []dialog.Reply {
	name := strings.Fields(text)[0]
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	switch name {
	case "/start":
		r.machine.Cancel(ev.ExternalID, ev.ConversationID)
		if !user.IsActive {
			if err := r.svc.Users.SetActive(user.ID, true); err != nil {
				r.log.Warnw("failed to reactivate user", "user_id", user.ID, "error", err)
			}
		}
		r.log.Infow("start command", "external_id", ev.ExternalID, "created", created)
		return []dialog.Reply{r.menuReply(dialog.TargetNew, r.fmt.Welcome(ev.Profile, created))}

	case "/help":
		return []dialog.Reply{r.menuReply(dialog.TargetNew, r.fmt.Help())}

	case "/stats":
		now := r.now().In(r.loc)
		summary, err := r.svc.Analytics.MonthlySummary(user.ID, now.Year(), now.Month())
		if err != nil {
			return r.readFailure(dialog.TargetNew, "stats", user, err)
		}
		return []dialog.Reply{{Target: dialog.TargetNew, Text: r.fmt.Stats(summary)}}

	case "/cancel":
		if r.machine.Cancel(ev.ExternalID, ev.ConversationID) {
			return []dialog.Reply{r.menuReply(dialog.TargetNew, format.Cancelled)}
		}
		return []dialog.Reply{r.menuReply(dialog.TargetNew, "🤷 Nothing to cancel.")}
	}

	return []dialog.Reply{r.menuReply(dialog.TargetNew, format.ChooseAction)}
}

// menu runs a menu action. Any flow running in the conversation is abandoned first.
func (r *Router) menu(ev dialog.Event, user *models.User, token string, target dialog.Target) []dialog.Reply {
	r.machine.Cancel(ev.ExternalID, ev.ConversationID)

	switch token {
	case TokenIncome:
		return r.start(ev, dialog.FlowTransaction, models.CategoryTypeIncome)
	case TokenExpense:
		return r.start(ev, dialog.FlowTransaction, models.CategoryTypeExpense)
	case TokenBudgetCreate:
		return r.start(ev, dialog.FlowBudget, models.CategoryTypeExpense)

	case TokenMainMenu:
		return []dialog.Reply{r.menuReply(target, format.ChooseAction)}
	case TokenHelp:
		return []dialog.Reply{r.menuReply(target, r.fmt.Help())}

	case TokenTransactions:
		txs, err := r.svc.Transactions.GetRecentTransactions(user.ID, recentTransactionsLimit)
		if err != nil {
			return r.readFailure(target, "recent transactions", user, err)
		}
		return []dialog.Reply{r.menuReply(target, r.fmt.RecentTransactions(txs))}

	case TokenBudgets:
		return []dialog.Reply{{Target: target, Text: "💰 " + format.Bold("Budgets"), Options: budgetMenu}}
	case TokenBudgetList:
		statuses, err := r.svc.Budgets.GetBudgetStatus(user.ID)
		if err != nil {
			return r.readFailure(target, "budget status", user, err)
		}
		return []dialog.Reply{{Target: target, Text: r.fmt.BudgetStatuses(statuses), Options: budgetMenu}}
	case TokenBudgetAlerts:
		alerts, err := r.svc.Budgets.GetBudgetAlerts(user.ID)
		if err != nil {
			return r.readFailure(target, "budget alerts", user, err)
		}
		return []dialog.Reply{{Target: target, Text: r.fmt.Alerts(alerts), Options: budgetMenu}}

	case TokenReports:
		return []dialog.Reply{{Target: target, Text: "📈 " + format.Bold("Reports"), Options: reportMenu}}
	case TokenReportMonthly:
		now := r.now().In(r.loc)
		_, summary, err := r.svc.Reports.GenerateMonthlyReport(user.ID, now.Year(), now.Month())
		if err != nil {
			return r.readFailure(target, "monthly report", user, err)
		}
		return []dialog.Reply{{Target: target, Text: r.fmt.MonthlyReport(summary), Options: reportMenu}}
	case TokenReportWeekly:
		_, summary, err := r.svc.Reports.GenerateWeeklyReport(user.ID, r.now())
		if err != nil {
			return r.readFailure(target, "weekly report", user, err)
		}
		return []dialog.Reply{{Target: target, Text: r.fmt.WeeklyReport(summary), Options: reportMenu}}
	case TokenReportCategories:
		report, err := r.svc.Reports.GenerateCategoryReport(user.ID, r.now())
		if err != nil {
			return r.readFailure(target, "category report", user, err)
		}
		return []dialog.Reply{{Target: target, Text: r.fmt.CategoryReport(report), Options: reportMenu}}
	case TokenReportHistory:
		reports, err := r.svc.Reports.GetUserReports(user.ID, nil, 0)
		if err != nil {
			return r.readFailure(target, "report history", user, err)
		}
		return []dialog.Reply{{Target: target, Text: r.fmt.ReportHistory(reports), Options: reportMenu}}

	case TokenSettings:
		return r.settings(user, target, "")
	case TokenToggleNotifications:
		link, err := r.svc.Chats.GetLink(user.ID)
		if err != nil {
			return r.readFailure(target, "chat link", user, err)
		}
		enabled := !link.NotificationsEnabled
		if err := r.svc.Chats.SetNotifications(user.ID, enabled); err != nil {
			return r.readFailure(target, "notification toggle", user, err)
		}
		notice := "🔕 Budget notifications are off."
		if enabled {
			notice = "🔔 Budget notifications are on."
		}
		return r.settings(user, target, notice)
	case TokenDeleteData:
		return []dialog.Reply{{
			Target: target,
			Text:   "🗑️ " + format.Bold("Delete all data") + "\n\n⚠️ This removes all your transactions, categories, budgets and reports. Are you sure?",
			Options: []dialog.Option{
				{Label: "✅ Yes, delete", Token: TokenDeleteConfirm},
				{Label: "❌ No", Token: TokenSettings},
			},
		}}
	case TokenDeleteConfirm:
		if err := r.svc.Users.DeleteUser(user.ID); err != nil {
			return r.readFailure(target, "delete user", user, err)
		}
		r.log.Infow("user data deleted", "external_id", ev.ExternalID)
		return []dialog.Reply{{Target: target, Text: "🗑️ All your data has been deleted. Send /start to begin again."}}
	}

	return []dialog.Reply{r.menuReply(target, format.ChooseAction)}
}

func (r *Router) start(ev dialog.Event, flow dialog.FlowID, kind models.CategoryType) []dialog.Reply {
	res := r.machine.Start(ev, flow, kind)
	replies := []dialog.Reply{res.Reply}
	if res.Outcome.Terminal() {
		replies = append(replies, r.menuReply(dialog.TargetNew, format.ChooseAction))
	}
	return replies
}

func (r *Router) settings(user *models.User, target dialog.Target, notice string) []dialog.Reply {
	link, err := r.svc.Chats.GetLink(user.ID)
	if err != nil {
		return r.readFailure(target, "chat link", user, err)
	}
	toggle := dialog.Option{Label: "🔕 Turn notifications off", Token: TokenToggleNotifications}
	state := "on"
	if !link.NotificationsEnabled {
		toggle = dialog.Option{Label: "🔔 Turn notifications on", Token: TokenToggleNotifications}
		state = "off"
	}

	text := "⚙️ " + format.Bold("Settings") + "\n\nBudget notifications: " + state
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return []dialog.Reply{{
		Target: target,
		Text:   text,
		Options: []dialog.Option{
			toggle,
			{Label: "🗑️ Delete all my data", Token: TokenDeleteData},
			backOption,
		},
	}}
}

func (r *Router) menuReply(target dialog.Target, text string) dialog.Reply {
	return dialog.Reply{Target: target, Text: text, Options: MainMenu()}
}

func (r *Router) failure(target dialog.Target) dialog.Reply {
	return r.menuReply(target, format.GenericFailure)
}

func (r *Router) readFailure(target dialog.Target, what string, user *models.User, err error) []dialog.Reply {
	r.log.Errorw("read failed", "what", what, "user_id", user.ID, "error", err)
	return []dialog.Reply{r.failure(target)}
}
