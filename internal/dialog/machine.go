package dialog

import (
	"time"

	"go.uber.org/zap"

	"ledgerbot/internal/format"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
	"ledgerbot/internal/services"
)

// Deps are the services the flows read from and commit through.
type Deps struct {
	Users        services.UserServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
}

// Config holds the input rules of the flows.
type Config struct {
	MaxAmount money.Amount
	Location  *time.Location
}

// Machine drives the guided-input flows. Events of one conversation are
// expected in order; different conversations may be handled concurrently.
type Machine struct {
	store     *Store
	deps      Deps
	fmt       *format.Formatter
	maxAmount money.Amount
	loc       *time.Location
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewMachine creates a Machine keeping its sessions in store.
func NewMachine(store *Store, deps Deps, f *format.Formatter, cfg Config) *Machine {
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = money.DefaultMax
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Machine{
		store:     store,
		deps:      deps,
		fmt:       f,
		maxAmount: cfg.MaxAmount,
		loc:       cfg.Location,
		now:       time.Now,
		log:       logger.Named("dialog"),
	}
}

// Start begins flow for the sender of ev, replacing any flow already running
// in that conversation. kind is the transaction kind; budgets always track expenses.
func (m *Machine) Start(ev Event, flow FlowID, kind models.CategoryType) Result {
	key := sessionKey{ev.ExternalID, ev.ConversationID}
	target := TargetFor(ev)

	user, _, err := m.deps.Users.ResolveUser(nil, ev.ExternalID, ev.Profile)
	if err != nil {
		m.store.Delete(key.externalID, key.conversationID)
		m.log.Errorw("failed to resolve user for flow", "external_id", ev.ExternalID, "flow", flow, "error", err)
		return failed(target, format.GenericFailure)
	}

	if flow == FlowBudget {
		kind = models.CategoryTypeExpense
	}
	sess := &Session{
		Flow:   flow,
		Step:   flows[flow][0],
		UserID: user.ID,
		Draft:  Draft{Kind: kind},
	}
	return m.render(key, sess, "", target)
}

// Active reports whether a flow is running in the conversation.
func (m *Machine) Active(externalID, conversationID string) bool {
	_, ok := m.store.Get(externalID, conversationID)
	return ok
}

// Cancel discards the running flow, reporting whether there was one.
func (m *Machine) Cancel(externalID, conversationID string) bool {
	if !m.Active(externalID, conversationID) {
		return false
	}
	m.store.Delete(externalID, conversationID)
	return true
}

// Handle feeds ev to the running flow of its conversation. It returns false
// when no flow is running there.
func (m *Machine) Handle(ev Event) (Result, bool) {
	key := sessionKey{ev.ExternalID, ev.ConversationID}
	sess, ok := m.store.Get(key.externalID, key.conversationID)
	if !ok {
		return Result{}, false
	}
	target := TargetFor(ev)

	if ev.Type == EventCancel || (ev.Type == EventOption && ev.Option == TokenCancel) {
		m.store.Delete(key.externalID, key.conversationID)
		return Result{Outcome: OutcomeCancelled, Reply: Reply{Target: target, Text: format.Cancelled}}, true
	}

	tr := steps[sess.Step].handle(m, &sess, ev)
	if !tr.advance {
		return m.render(key, &sess, tr.notice, target), true
	}

	next, ok := nextStep(sess.Flow, sess.Step)
	if !ok {
		m.store.Delete(key.externalID, key.conversationID)
		return m.commit(ev, sess, target), true
	}
	sess.Step = next
	sess.NewCategory = false
	return m.render(key, &sess, tr.notice, target), true
}

// render stores sess and prompts for its current step.
func (m *Machine) render(key sessionKey, sess *Session, notice string, target Target) Result {
	st := steps[sess.Step]

	var categories []models.Category
	if st.needsCategories {
		// The flow resolved its user on start; a user gone by now cannot be recovered.
		if _, err := m.deps.Users.GetUserByID(sess.UserID); err != nil {
			m.store.Delete(key.externalID, key.conversationID)
			m.log.Warnw("user vanished during flow", "external_id", key.externalID, "flow", sess.Flow, "error", err)
			return failed(target, format.GenericFailure)
		}
		var err error
		categories, err = m.deps.Categories.GetUserCategoriesByType(sess.UserID, sess.Draft.Kind)
		if err != nil {
			m.store.Delete(key.externalID, key.conversationID)
			m.log.Errorw("failed to list categories", "user_id", sess.UserID, "error", err)
			return failed(target, format.GenericFailure)
		}
	}

	text := st.prompt(sess, categories, m.fmt)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	sess.Offered = st.options(sess.Draft, categories)
	m.store.Put(key.externalID, key.conversationID, *sess)

	return Result{
		Outcome: OutcomeContinue,
		Reply:   Reply{Target: target, Text: text, Options: sess.Offered},
	}
}

// commit persists a completed draft. The session is already discarded, so a
// failure sends the user back to the menu.
func (m *Machine) commit(ev Event, sess Session, target Target) Result {
	switch sess.Flow {
	case FlowTransaction:
		tx, err := m.deps.Transactions.RecordTransaction(services.RecordTransactionInput{
			ExternalID:   ev.ExternalID,
			Profile:      ev.Profile,
			Kind:         sess.Draft.Kind,
			CategoryName: sess.Draft.CategoryName,
			Amount:       sess.Draft.Amount,
			Description:  sess.Draft.Description,
			OccurredAt:   m.now(),
		})
		if err != nil {
			m.log.Errorw("failed to record transaction", "external_id", ev.ExternalID, "error", err)
			return failed(target, format.SaveFailure)
		}
		m.log.Infow("transaction recorded", "external_id", ev.ExternalID, "transaction_id", tx.ID, "kind", tx.Type)
		return committed(target, m.fmt.TransactionSaved(tx))

	case FlowBudget:
		budget, err := m.deps.Budgets.CreateBudget(services.CreateBudgetInput{
			ExternalID:   ev.ExternalID,
			Profile:      ev.Profile,
			Name:         sess.Draft.Name,
			Amount:       sess.Draft.Amount,
			CategoryName: sess.Draft.CategoryName,
			StartDate:    sess.Draft.StartDate,
			EndDate:      sess.Draft.EndDate,
		})
		if err != nil {
			m.log.Errorw("failed to create budget", "external_id", ev.ExternalID, "error", err)
			return failed(target, format.SaveFailure)
		}
		m.log.Infow("budget created", "external_id", ev.ExternalID, "budget_id", budget.ID)
		return committed(target, m.fmt.BudgetSaved(budget))
	}

	return failed(target, format.GenericFailure)
}

func committed(target Target, text string) Result {
	return Result{Outcome: OutcomeCommitted, Reply: Reply{Target: target, Text: text}}
}

func failed(target Target, text string) Result {
	return Result{Outcome: OutcomeFailed, Reply: Reply{Target: target, Text: text}}
}
