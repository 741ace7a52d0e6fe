package bot

import "ledgerbot/internal/dialog"

// Menu tokens handled by the router rather than by a running flow.
const (
	TokenMainMenu     = "menu:main"
	TokenIncome       = "menu:income"
	TokenExpense      = "menu:expense"
	TokenTransactions = "menu:transactions"
	TokenBudgets      = "menu:budgets"
	TokenReports      = "menu:reports"
	TokenSettings     = "menu:settings"
	TokenHelp         = "menu:help"

	TokenBudgetCreate = "budget:create"
	TokenBudgetList   = "budget:list"
	TokenBudgetAlerts = "budget:alerts"

	TokenReportMonthly    = "report:monthly"
	TokenReportWeekly     = "report:weekly"
	TokenReportCategories = "report:categories"
	TokenReportHistory    = "report:history"

	TokenToggleNotifications = "settings:notifications"
	TokenDeleteData          = "settings:delete"
	TokenDeleteConfirm       = "settings:delete_confirm"
)

var mainMenu = []dialog.Option{
	{Label: "➕ Add income", Token: TokenIncome},
	{Label: "➖ Add expense", Token: TokenExpense},
	{Label: "📊 My transactions", Token: TokenTransactions},
	{Label: "💰 My budgets", Token: TokenBudgets},
	{Label: "📈 Reports", Token: TokenReports},
	{Label: "⚙️ Settings", Token: TokenSettings},
	{Label: "ℹ️ Help", Token: TokenHelp},
}

var budgetMenu = []dialog.Option{
	{Label: "➕ Create budget", Token: TokenBudgetCreate},
	{Label: "📊 My budgets", Token: TokenBudgetList},
	{Label: "🔔 Check alerts", Token: TokenBudgetAlerts},
	backOption,
}

var reportMenu = []dialog.Option{
	{Label: "📊 Monthly report", Token: TokenReportMonthly},
	{Label: "📅 Weekly report", Token: TokenReportWeekly},
	{Label: "📂 By category", Token: TokenReportCategories},
	{Label: "📋 My reports", Token: TokenReportHistory},
	backOption,
}

var backOption = dialog.Option{Label: "⬅️ Main menu", Token: TokenMainMenu}

// MainMenu returns the top-level options shown after every finished action.
func MainMenu() []dialog.Option {
	return append([]dialog.Option(nil), mainMenu...)
}

// menuToken maps a typed main-menu label back to its token, so the menu works
// as a reply keyboard too.
func menuToken(text string) (string, bool) {
	for _, o := range mainMenu {
		if o.Label == text {
			return o.Token, true
		}
	}
	return "", false
}

func isMenuToken(token string) bool {
	switch token {
	case TokenMainMenu, TokenIncome, TokenExpense, TokenTransactions, TokenBudgets,
		TokenReports, TokenSettings, TokenHelp,
		TokenBudgetCreate, TokenBudgetList, TokenBudgetAlerts,
		TokenReportMonthly, TokenReportWeekly, TokenReportCategories, TokenReportHistory,
		TokenToggleNotifications, TokenDeleteData, TokenDeleteConfirm:
		return true
	}
	return false
}
