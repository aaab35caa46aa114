package conversation

import (
	"context"
	"strings"
	gosync "sync"

	"go.uber.org/zap"

	appointmentRepo "sonrisa/database/repository/appointment"
	"sonrisa/models"
	syncbridge "sonrisa/services/sync"
	"sonrisa/utils"
)

// ConversationEngine drives the guided booking dialogue. HandleMessage takes
// one inbound customer message and returns the reply to send back.
type ConversationEngine interface {
	HandleMessage(ctx context.Context, from, body string) string
}

// DefaultConversationEngine is the production engine: a linear per-customer
// state machine over an injected session store. Completed bookings go to the
// repository and are announced on the sync bridge; neither path can fail the
// conversation.
type DefaultConversationEngine struct {
	Sessions SessionStore
	Repo     appointmentRepo.AppointmentRepository
	Bridge   syncbridge.Bridge
	Logger   *zap.Logger

	mu    gosync.Mutex
	locks map[string]*gosync.Mutex
}

// NewEngine wires a conversation engine.
func NewEngine(sessions SessionStore, repo appointmentRepo.AppointmentRepository, bridge syncbridge.Bridge, logger *zap.Logger) *DefaultConversationEngine {
	return &DefaultConversationEngine{
		Sessions: sessions,
		Repo:     repo,
		Bridge:   bridge,
		Logger:   logger,
		locks:    make(map[string]*gosync.Mutex),
	}
}

// Triggers exposes the keyword groups the external dispatch engine routes
// on. Capture-step continuations are driven by session state, not keywords.
func Triggers() map[string][]string {
	keywords := make([]string, 0, len(Catalog)*2)
	for _, opt := range Catalog {
		keywords = append(keywords, opt.Keyword, opt.Digit)
	}
	return map[string][]string{
		"greeting": {"hola", "buenas", "menu"},
		"thanks":   {"gracias"},
		"history":  {"historial", "reportes"},
		"services": keywords,
	}
}

// HandleMessage processes one message from a customer. Messages from the
// same customer are serialized; different customers proceed concurrently.
func (e *DefaultConversationEngine) HandleMessage(ctx context.Context, from, body string) string {
	lock := e.customerLock(from)
	lock.Lock()
	defer lock.Unlock()

	input := strings.TrimSpace(body)
	lower := strings.ToLower(input)

	// Global commands work regardless of dialogue stage.
	switch lower {
	case "hola", "buenas", "menu":
		e.Sessions.Set(from, models.Session{Stage: models.StageAwaitingServiceChoice})
		return msgWelcome + "\n\n" + menuMessage()
	case "gracias":
		return msgThanks
	case "historial", "reportes":
		return e.history(ctx)
	}

	session, ok := e.Sessions.Get(from)
	if !ok {
		// A bare service keyword starts the dialogue at the confirmation
		// step, skipping the menu.
		if opt, found := FindServiceByKeyword(lower); found {
			e.startConfirmation(from, opt)
			return confirmMessage(opt)
		}
		return msgFallback
	}

	switch session.Stage {
	case models.StageAwaitingServiceChoice:
		return e.handleServiceChoice(from, lower)
	case models.StageAwaitingConfirmation:
		return e.handleConfirmation(from, session, lower)
	case models.StageAwaitingName:
		return e.handleName(from, session, input)
	case models.StageAwaitingDateTime:
		return e.handleDateTime(ctx, from, session, input)
	}

	e.Logger.Warn("session in unknown stage, clearing", zap.String("customer", from))
	e.Sessions.Clear(from)
	return msgRestart
}

func (e *DefaultConversationEngine) handleServiceChoice(from, input string) string {
	opt, found := FindService(input)
	if !found {
		// Recoverable: re-prompt without losing the menu position.
		return msgInvalidOption
	}
	e.startConfirmation(from, opt)
	return confirmMessage(opt)
}

func (e *DefaultConversationEngine) startConfirmation(from string, opt ServiceOption) {
	e.Sessions.Set(from, models.Session{
		Stage:              models.StageAwaitingConfirmation,
		ServiceType:        opt.Keyword,
		ServiceDescription: opt.Description,
		Price:              opt.Price,
	})
}

func (e *DefaultConversationEngine) handleConfirmation(from string, session models.Session, input string) string {
	switch input {
	case "sí", "si", "s":
		session.Stage = models.StageAwaitingName
		e.Sessions.Set(from, session)
		return msgAskName
	case "no", "n":
		e.Sessions.Set(from, models.Session{Stage: models.StageAwaitingServiceChoice})
		return msgWelcome + "\n\n" + menuMessage()
	default:
		return msgInvalidConfirm
	}
}

func (e *DefaultConversationEngine) handleName(from string, session models.Session, input string) string {
	if !utils.IsValidName(input) {
		// Capture-step failures abort the whole conversation; the customer
		// restarts with the greeting keyword.
		e.Sessions.Clear(from)
		return msgInvalidName
	}
	session.Name = strings.TrimSpace(input)
	session.Stage = models.StageAwaitingDateTime
	session.ExpectingDateTime = true
	e.Sessions.Set(from, session)
	return msgAskDateTime
}

func (e *DefaultConversationEngine) handleDateTime(ctx context.Context, from string, session models.Session, input string) string {
	if !session.ExpectingDateTime {
		return msgRestart
	}
	if !utils.IsValidDateTime(input) {
		e.Sessions.Clear(from)
		return msgInvalidDateTime
	}

	appt, err := e.Repo.Insert(ctx, session.Name, from, session.ServiceDescription, session.Price, input)
	if err != nil {
		// The repository contract is best-effort, so this only fires on
		// programming errors. The customer still gets their summary.
		e.Logger.Error("unexpected insert failure", zap.Error(err), zap.String("customer", from))
	} else {
		e.Bridge.AppointmentCreated(appt)
	}

	e.Sessions.Clear(from)
	e.Logger.Info("booking captured",
		zap.String("customer", from),
		zap.String("service", session.ServiceDescription),
		zap.String("date", input),
		zap.Int("appointment", appt.ID))
	return summaryMessage(session.Name, session.ServiceDescription, session.Price, input)
}

func (e *DefaultConversationEngine) history(ctx context.Context) string {
	appointments, err := e.Repo.ListRecent(ctx, 100)
	if err != nil {
		e.Logger.Error("failed to load appointment history", zap.Error(err))
		return msgNoHistory
	}
	return historyMessage(appointments)
}

// customerLock returns the mutex serializing one customer's dialogue steps.
func (e *DefaultConversationEngine) customerLock(from string) *gosync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[from]
	if !ok {
		lock = &gosync.Mutex{}
		e.locks[from] = lock
	}
	return lock
}
