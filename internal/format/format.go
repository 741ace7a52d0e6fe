// Package format renders chat replies. Output uses the HTML subset chat
// platforms accept (bold only); user-supplied text is always escaped.
package format

import (
	"fmt"
	"html"
	"strings"
	"time"

	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
	"ledgerbot/internal/services"
)

// Fixed texts shared across the bot.
const (
	GenericFailure = "❌ Something went wrong. Please try again later."
	SaveFailure    = "❌ Could not save your entry. Please start again from the menu."
	Cancelled      = "❌ Cancelled."
	ChooseAction   = "❓ Choose an action from the menu."
)

// Formatter renders domain values into chat texts.
type Formatter struct {
	currency string
	loc      *time.Location
}

// New creates a Formatter that labels amounts with currency and shows dates in loc.
func New(currency string, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{currency: currency, loc: loc}
}

// Bold wraps already-safe text in bold tags.
func Bold(s string) string {
	return "<b>" + s + "</b>"
}

// Escape makes user-supplied text safe for the HTML subset.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Amount renders an amount with the currency label, e.g. "1500.00 RUB".
func (f *Formatter) Amount(a money.Amount) string {
	return a.String() + " " + f.currency
}

// Currency returns the configured currency label.
func (f *Formatter) Currency() string {
	return f.currency
}

func (f *Formatter) date(t time.Time) string {
	return t.In(f.loc).Format("02.01.2006")
}

func (f *Formatter) dateTime(t time.Time) string {
	return t.In(f.loc).Format("02.01.2006 15:04")
}

// KindTitle returns the capitalized name of a kind.
func KindTitle(kind models.CategoryType) string {
	if kind == models.CategoryTypeIncome {
		return "Income"
	}
	return "Expense"
}

func kindEmoji(kind models.CategoryType) string {
	if kind == models.CategoryTypeIncome {
		return "💰"
	}
	return "💸"
}

// Welcome greets a user on /start.
func (f *Formatter) Welcome(p models.Profile, created bool) string {
	name := Escape(p.DisplayName())
	if !created {
		return fmt.Sprintf("👋 Welcome back, %s!\n\nChoose an action below 👇", name)
	}
	return fmt.Sprintf("👋 Welcome, %s!\n\n"+
		"🏦 This bot helps you manage your personal finances:\n"+
		"• 💰 track income and expenses\n"+
		"• 📊 set budgets per category\n"+
		"• 📈 build weekly and monthly reports\n"+
		"• 🔔 get notified when a budget runs out\n\n"+
		"Choose an action below 👇", name)
}

// Help lists the commands and features.
func (f *Formatter) Help() string {
	var b strings.Builder
	b.WriteString("🤖 " + Bold("Commands:") + "\n\n")
	b.WriteString("/start - start the bot\n")
	b.WriteString("/help - show this help\n")
	b.WriteString("/stats - quick statistics for this month\n")
	b.WriteString("/cancel - cancel the current entry\n\n")
	b.WriteString("💰 " + Bold("Transactions:") + " add income and expenses, pick or create a category, add an optional note.\n")
	b.WriteString("📊 " + Bold("Budgets:") + " set a monthly limit for an expense category and track how much is left.\n")
	b.WriteString("📈 " + Bold("Reports:") + " monthly, weekly and by-category summaries, saved to your history.\n")
	b.WriteString("⚙️ " + Bold("Settings:") + " turn budget notifications on or off, delete all your data.")
	return b.String()
}

// Stats renders the /stats quick statistics for a month.
func (f *Formatter) Stats(s *services.MonthlySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", Bold("Quick statistics for "+s.Start.Format("January 2006")))
	fmt.Fprintf(&b, "💰 Income: %s\n", f.Amount(s.TotalIncome))
	fmt.Fprintf(&b, "💸 Expenses: %s\n", f.Amount(s.TotalExpenses))
	fmt.Fprintf(&b, "💵 Balance: %s\n\n", f.Amount(s.Balance))
	if s.Balance > 0 {
		b.WriteString("✅ The month is going well!")
	} else {
		b.WriteString("⚠️ Consider reviewing your expenses.")
	}
	return b.String()
}

// TransactionSaved confirms a committed transaction.
func (f *Formatter) TransactionSaved(t *models.Transaction) string {
	var b strings.Builder
	b.WriteString("✅ " + Bold("Transaction saved!") + "\n\n")
	fmt.Fprintf(&b, "%s %s: %s\n", kindEmoji(t.Type), KindTitle(t.Type), f.Amount(t.Amount))
	if t.Category != nil {
		fmt.Fprintf(&b, "📂 Category: %s\n", Escape(t.Category.Name))
	}
	if t.Description != nil {
		fmt.Fprintf(&b, "📝 Note: %s\n", Escape(*t.Description))
	}
	fmt.Fprintf(&b, "📅 %s", f.dateTime(t.OccurredAt))
	return b.String()
}

// BudgetSaved confirms a committed budget.
func (f *Formatter) BudgetSaved(bud *models.Budget) string {
	var b strings.Builder
	b.WriteString("✅ " + Bold("Budget created!") + "\n\n")
	fmt.Fprintf(&b, "📋 Name: %s\n", Escape(bud.Name))
	fmt.Fprintf(&b, "💰 Limit: %s\n", f.Amount(bud.Amount))
	if bud.Category != nil {
		fmt.Fprintf(&b, "📂 Category: %s\n", Escape(bud.Category.Name))
	}
	b.WriteString("📅 Period: " + f.period(bud.StartDate, bud.EndDate))
	return b.String()
}

func (f *Formatter) period(start time.Time, end *time.Time) string {
	if end == nil {
		return "from " + f.date(start)
	}
	return f.date(start) + " - " + f.date(*end)
}

// RecentTransactions lists the latest transactions.
func (f *Formatter) RecentTransactions(txs []models.Transaction) string {
	if len(txs) == 0 {
		return "📭 You have no transactions yet."
	}

	var b strings.Builder
	b.WriteString("📊 " + Bold("Recent transactions:") + "\n\n")
	for i, t := range txs {
		category := "No category"
		if t.Category != nil {
			category = t.Category.Name
		}
		fmt.Fprintf(&b, "%d. %s %s - %s\n", i+1, kindEmoji(t.Type), f.Amount(t.Amount), Escape(category))
		fmt.Fprintf(&b, "   📅 %s\n", f.dateTime(t.OccurredAt))
		if t.Description != nil {
			fmt.Fprintf(&b, "   📝 %s\n", Escape(*t.Description))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// BudgetStatuses lists budgets with their consumption.
func (f *Formatter) BudgetStatuses(statuses []services.BudgetStatus) string {
	if len(statuses) == 0 {
		return "📭 You have no active budgets."
	}

	var b strings.Builder
	b.WriteString("💰 " + Bold("Your budgets:") + "\n")
	for _, s := range statuses {
		icon := "✅"
		if s.Exceeded {
			icon = "🔴"
		}
		fmt.Fprintf(&b, "\n%s %s (%s)\n", icon, Bold(Escape(s.Budget.Name)), Escape(s.CategoryName))
		fmt.Fprintf(&b, "   Spent: %s of %s (%s%%)\n", f.Amount(s.Spent), f.Amount(s.Limit), s.Percent.StringFixed(1))
		fmt.Fprintf(&b, "   Remaining: %s\n", f.Amount(s.Remaining))
		fmt.Fprintf(&b, "   📅 %s\n", f.period(s.Budget.StartDate, s.Budget.EndDate))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Alerts lists budget alerts.
func (f *Formatter) Alerts(alerts []services.BudgetAlert) string {
	if len(alerts) == 0 {
		return "✅ All budgets are within their limits."
	}

	var b strings.Builder
	b.WriteString("🔔 " + Bold("Budget alerts:") + "\n")
	for _, a := range alerts {
		b.WriteString("\n" + f.alertLine(a))
	}
	return b.String()
}

func (f *Formatter) alertLine(a services.BudgetAlert) string {
	name := Bold(Escape(a.Status.Budget.Name))
	switch a.Level {
	case services.AlertExceeded:
		return fmt.Sprintf("🔴 %s exceeded: spent %s of %s", name, f.Amount(a.Status.Spent), f.Amount(a.Status.Limit))
	default:
		return fmt.Sprintf("🟡 %s is near its limit: spent %s of %s (%s%%)",
			name, f.Amount(a.Status.Spent), f.Amount(a.Status.Limit), a.Status.Percent.StringFixed(1))
	}
}

// AlertDigest is the scheduled notification pushed to a user.
func (f *Formatter) AlertDigest(alerts []services.BudgetAlert) string {
	return "⏰ " + Bold("Daily budget check") + "\n\n" + f.Alerts(alerts)
}

// MonthlyReport renders a monthly summary.
func (f *Formatter) MonthlyReport(s *services.MonthlySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", Bold("Monthly report for "+s.Start.Format("January 2006")))
	fmt.Fprintf(&b, "💰 Income: %s\n", f.Amount(s.TotalIncome))
	fmt.Fprintf(&b, "💸 Expenses: %s\n", f.Amount(s.TotalExpenses))
	fmt.Fprintf(&b, "💵 Balance: %s\n", f.Amount(s.Balance))
	fmt.Fprintf(&b, "🔢 Transactions: %d", s.TransactionCount)
	if len(s.TopExpenseCategories) > 0 {
		b.WriteString("\n\n" + Bold("Top expense categories:") + "\n")
		for i, c := range s.TopExpenseCategories {
			fmt.Fprintf(&b, "%d. %s: %s (%s%%)\n", i+1, Escape(c.Name), f.Amount(c.Total),
				money.Percent(c.Total, s.TotalExpenses).StringFixed(1))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// WeeklyReport renders the seven-day summary.
func (f *Formatter) WeeklyReport(s *services.WeeklySummary) string {
	var b strings.Builder
	lastDay := s.End.AddDate(0, 0, -1)
	fmt.Fprintf(&b, "📅 %s\n\n", Bold("Weekly report "+f.date(s.Start)+" - "+f.date(lastDay)))
	for _, d := range s.Days {
		if d.Count == 0 {
			continue
		}
		day, err := time.ParseInLocation(time.DateOnly, d.Date, f.loc)
		label := d.Date
		if err == nil {
			label = day.Format("Mon 02.01")
		}
		fmt.Fprintf(&b, "%s: +%s / -%s\n", label, d.Income, d.Expense)
	}
	if s.TransactionCount == 0 {
		b.WriteString("No transactions this week.\n")
	}
	fmt.Fprintf(&b, "\n💰 Income: %s\n", f.Amount(s.TotalIncome))
	fmt.Fprintf(&b, "💸 Expenses: %s\n", f.Amount(s.TotalExpenses))
	fmt.Fprintf(&b, "💵 Balance: %s", f.Amount(s.Balance))
	return b.String()
}

// CategoryReport renders current-month totals by category.
func (f *Formatter) CategoryReport(r *services.CategoryReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📂 %s\n", Bold("Categories for "+r.Start.Format("January 2006")))
	f.categorySection(&b, "💰 Income", r.Income)
	f.categorySection(&b, "💸 Expenses", r.Expense)
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) categorySection(b *strings.Builder, title string, totals []services.CategoryTotal) {
	b.WriteString("\n" + Bold(title) + "\n")
	if len(totals) == 0 {
		b.WriteString("nothing yet\n")
		return
	}
	for _, t := range totals {
		fmt.Fprintf(b, "• %s: %s (%d)\n", Escape(t.Name), f.Amount(t.Total), t.Count)
	}
}

// ReportHistory lists previously generated reports.
func (f *Formatter) ReportHistory(reports []models.Report) string {
	if len(reports) == 0 {
		return "📭 No saved reports yet."
	}

	var b strings.Builder
	b.WriteString("📋 " + Bold("Saved reports:") + "\n\n")
	for i, r := range reports {
		fmt.Fprintf(&b, "%d. %s (created %s)\n", i+1, Escape(r.Name), f.dateTime(r.CreatedAt))
	}
	return strings.TrimRight(b.String(), "\n")
}
