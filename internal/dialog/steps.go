package dialog

import (
	"errors"
	"strings"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/format"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
)

// flows lists the steps of each flow in order. Advancing past the last step commits.
var flows = map[FlowID][]StepID{
	FlowTransaction: {StepAmount, StepCategory, StepDescription},
	FlowBudget:      {StepName, StepAmount, StepCategory, StepPeriod},
}

// transition is what a step handler decided about one event.
type transition struct {
	advance bool
	// notice is shown above the next prompt: a validation error when staying,
	// a confirmation of the accepted value when advancing.
	notice string
}

func stay(notice string) transition { return transition{notice: notice} }

func advance(notice string) transition { return transition{advance: true, notice: notice} }

// step describes one state of a flow. options is a pure function of the draft
// and, for steps that set needsCategories, the user's categories of the draft kind.
type step struct {
	needsCategories bool
	prompt          func(s *Session, categories []models.Category, f *format.Formatter) string
	options         func(d Draft, categories []models.Category) []Option
	handle          func(m *Machine, s *Session, ev Event) transition
}

var steps = map[StepID]step{
	StepAmount: {
		prompt:  amountPrompt,
		options: cancelOnly,
		handle:  handleAmount,
	},
	StepCategory: {
		needsCategories: true,
		prompt:          categoryPrompt,
		options:         categoryOptions,
		handle:          handleCategory,
	},
	StepDescription: {
		prompt: func(*Session, []models.Category, *format.Formatter) string {
			return "📝 Add a note, or press Skip:"
		},
		options: func(Draft, []models.Category) []Option {
			return []Option{{Label: "⏭️ Skip", Token: TokenSkipDescription}, CancelOption}
		},
		handle: handleDescription,
	},
	StepName: {
		prompt: func(*Session, []models.Category, *format.Formatter) string {
			return "📋 " + format.Bold("New budget") + "\n\nEnter a name for the budget:"
		},
		options: cancelOnly,
		handle:  handleName,
	},
	StepPeriod: {
		prompt: func(*Session, []models.Category, *format.Formatter) string {
			return "📅 Choose the budget period:"
		},
		options: func(Draft, []models.Category) []Option {
			return []Option{
				{Label: "📅 This month", Token: TokenPeriodCurrent},
				{Label: "📆 Next month", Token: TokenPeriodNext},
				{Label: "🗓️ Custom", Token: TokenPeriodCustom},
				CancelOption,
			}
		},
		handle: handlePeriod,
	},
}

// nextStep returns the step after current, or false when current is the last.
func nextStep(flow FlowID, current StepID) (StepID, bool) {
	order := flows[flow]
	for i, id := range order {
		if id == current && i+1 < len(order) {
			return order[i+1], true
		}
	}
	return "", false
}

func cancelOnly(Draft, []models.Category) []Option {
	return []Option{CancelOption}
}

func amountPrompt(s *Session, _ []models.Category, f *format.Formatter) string {
	if s.Flow == FlowBudget {
		return "💰 Enter the budget limit in " + f.Currency() + ":"
	}
	title := "New " + strings.ToLower(format.KindTitle(s.Draft.Kind))
	return "💰 " + format.Bold(title) + "\n\nEnter the amount in " + f.Currency() + ":"
}

func categoryPrompt(s *Session, categories []models.Category, _ *format.Formatter) string {
	kind := strings.ToLower(format.KindTitle(s.Draft.Kind))
	switch {
	case s.NewCategory:
		return "📝 Enter the name of the new " + kind + " category:"
	case len(categories) == 0:
		return "📝 You have no " + kind + " categories yet. Enter a name for a new one:"
	default:
		return "📂 Choose a " + kind + " category, or type a new name:"
	}
}

func categoryOptions(_ Draft, categories []models.Category) []Option {
	opts := make([]Option, 0, len(categories)+2)
	for _, c := range categories {
		opts = append(opts, Option{Label: c.Name, Token: TokenCategoryPrefix + c.ID})
	}
	opts = append(opts, Option{Label: "📝 Other category", Token: TokenCategoryOther}, CancelOption)
	return opts
}

func handleAmount(m *Machine, s *Session, ev Event) transition {
	if ev.Type != EventText {
		return stay("")
	}
	amount, err := money.Parse(ev.Text, m.maxAmount)
	if err != nil {
		return stay(validationNotice(err))
	}
	s.Draft.Amount = amount
	return advance("✅ Amount: " + m.fmt.Amount(amount))
}

func handleCategory(m *Machine, s *Session, ev Event) transition {
	switch ev.Type {
	case EventOption:
		if ev.Option == TokenCategoryOther {
			s.NewCategory = true
			return stay("")
		}
		for _, opt := range s.Offered {
			if opt.Token == ev.Option && strings.HasPrefix(opt.Token, TokenCategoryPrefix) && opt.Token != TokenCategoryOther {
				s.Draft.CategoryName = opt.Label
				s.NewCategory = false
				return advance("✅ Category: " + format.Escape(opt.Label))
			}
		}
		return stay("")
	case EventText:
		name, err := ValidateName(ev.Text)
		if err != nil {
			return stay(validationNotice(err))
		}
		s.Draft.CategoryName = name
		s.NewCategory = false
		return advance("✅ Category: " + format.Escape(name))
	}
	return stay("")
}

func handleDescription(_ *Machine, s *Session, ev Event) transition {
	switch ev.Type {
	case EventOption:
		if ev.Option != TokenSkipDescription {
			return stay("")
		}
		s.Draft.Description = nil
		return advance("")
	case EventText:
		description, err := ParseDescription(ev.Text)
		if err != nil {
			return stay(validationNotice(err))
		}
		s.Draft.Description = description
		return advance("")
	}
	return stay("")
}

func handleName(_ *Machine, s *Session, ev Event) transition {
	if ev.Type != EventText {
		return stay("")
	}
	name, err := ValidateName(ev.Text)
	if err != nil {
		return stay(validationNotice(err))
	}
	s.Draft.Name = name
	return advance("✅ Name: " + format.Escape(name))
}

func handlePeriod(m *Machine, s *Session, ev Event) transition {
	if ev.Type != EventOption {
		return stay("")
	}
	start, end, err := PeriodBounds(ev.Option, m.now(), m.loc)
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedPeriod):
		return stay("🚧 Custom periods are not supported yet. Choose one of the presets.")
	case err != nil:
		return stay("")
	}
	s.Draft.StartDate = start
	s.Draft.EndDate = &end
	return advance("")
}

// validationNotice turns a validation error into the text shown before the re-prompt.
func validationNotice(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return "❌ " + appErr.Message
	}
	return "❌ Invalid input"
}
