package conversation

import (
	"fmt"
	"strings"
	"time"
)

// Engine drives a conversation through its stages. Dispatch is a total
// function over the stage set: an unknown stage is healed to
// INFORMATION_GATHERING before the handler table is consulted, so a corrupted
// or future stage value can never strand a session.
type Engine struct {
	resolver  *DateResolver
	templates TemplateProvider

	// bookingHorizonDays tightens the date horizon once a customer is
	// actually booking, independent of the general resolver horizon.
	bookingHorizonDays int
}

// NewEngine builds an engine from its collaborators.
func NewEngine(resolver *DateResolver, templates TemplateProvider, bookingHorizonDays int) *Engine {
	return &Engine{
		resolver:           resolver,
		templates:          templates,
		bookingHorizonDays: bookingHorizonDays,
	}
}

// stageHandler processes one message for one stage and returns the response
// text plus the next stage. Handlers never fail; every branch yields a
// response and mutates only the passed-in context.
type stageHandler func(e *Engine, c *Context, message string, now time.Time) (string, Stage)

var stageHandlers = map[Stage]stageHandler{
	StageGreeting:              (*Engine).handleGreeting,
	StageProblemIdentification: (*Engine).handleProblemIdentification,
	StageInformationGathering:  (*Engine).handleInformationGathering,
	StageRecommendation:        (*Engine).handleRecommendation,
	StageBookingDetails:        (*Engine).handleBookingDetails,
	StagePaymentProcessing:     (*Engine).handlePaymentProcessing,
	StageConfirmation:          (*Engine).handleConfirmation,
	StageEscalation:            (*Engine).handleEscalation,
}

// Process runs one message through the handler for the context's current
// stage and applies the resulting transition.
func (e *Engine) Process(c *Context, message string, now time.Time) string {
	if _, ok := knownStages[c.Stage]; !ok {
		c.Stage = StageInformationGathering
	}
	handler := stageHandlers[c.Stage]
	if handler == nil {
		handler = (*Engine).handleInformationGathering
	}
	response, next := handler(e, c, message, now)
	c.Stage = next
	c.RecordMessage(message)
	c.LastActiveAt = now
	return response
}

// ---------- intent word sets ----------

var greetingWords = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"namaste", "hola", "greetings",
}

var affirmativeWords = []string{
	"yes", "yeah", "yep", "sure", "book", "proceed", "ok", "okay",
	"go ahead", "sounds good", "please do", "definitely",
}

var negativeWords = []string{
	"no", "not", "nope", "alternative", "other", "else", "different",
}

var onlinePaymentWords = []string{
	"online", "card", "upi", "netbanking", "credit", "debit", "transfer",
}

var cashPaymentWords = []string{
	"cash", "in person", "in-person", "cheque", "check",
}

// containsAnyWord matches single keywords on token boundaries and multi-word
// keywords as substrings. Plain substring matching misfires on English
// ("no" inside "know"), so single words must line up with a whole token.
func containsAnyWord(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	var tokens map[string]bool
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = make(map[string]bool)
			for _, tok := range strings.Fields(lower) {
				tokens[strings.Trim(tok, ".,!?;:\"'")] = true
			}
		}
		if tokens[kw] {
			return true
		}
	}
	return false
}

func isGreeting(message string) bool {
	if len(strings.Fields(message)) > 4 {
		return false
	}
	return containsAnyWord(message, greetingWords)
}

// ---------- stage handlers ----------

func (e *Engine) handleGreeting(c *Context, message string, now time.Time) (string, Stage) {
	if isGreeting(message) {
		return e.templates.Render(ScenarioGreeting, c.Language, ""), StageProblemIdentification
	}
	// The customer skipped pleasantries and stated a concern directly.
	return e.handleProblemIdentification(c, message, now)
}

func (e *Engine) handleProblemIdentification(c *Context, message string, _ time.Time) (string, Stage) {
	c.Concern = ClassifyConcern(message)
	ExtractConcernInfo(c, message)
	return e.gatherOrRecommend(c)
}

func (e *Engine) handleInformationGathering(c *Context, message string, _ time.Time) (string, Stage) {
	if c.Concern == "" {
		c.Concern = ClassifyConcern(message)
	}
	ExtractConcernInfo(c, message)
	return e.gatherOrRecommend(c)
}

// gatherOrRecommend advances to RECOMMENDATION when every required slot is
// filled, otherwise prompts for the first missing slot in priority order.
func (e *Engine) gatherOrRecommend(c *Context) (string, Stage) {
	missing := missingInfoSlots(c)
	if len(missing) == 0 {
		text := e.templates.Render(ScenarioRecommendation, c.Language, string(c.Concern))
		if c.Concern == ConcernAppealDeadline {
			text += " " + e.templates.LegalDisclaimer(c.Language, string(c.Concern))
		}
		return text, StageRecommendation
	}
	return e.templates.Render(infoSlotPrompts[missing[0]], c.Language, ""), StageInformationGathering
}

var infoSlotPrompts = map[string]Scenario{
	"property_type":     ScenarioAskPropertyType,
	"county":            ScenarioAskCounty,
	"assessment_amount": ScenarioAskAssessment,
}

func (e *Engine) handleRecommendation(c *Context, message string, _ time.Time) (string, Stage) {
	switch {
	case containsAnyWord(message, affirmativeWords):
		return e.templates.Render(ScenarioAskName, c.Language, ""), StageBookingDetails
	case containsAnyWord(message, negativeWords):
		return e.templates.Render(ScenarioOfferAlternatives, c.Language, ""), StageRecommendation
	default:
		return e.templates.Render(ScenarioClarifyBooking, c.Language, ""), StageRecommendation
	}
}

func (e *Engine) handleBookingDetails(c *Context, message string, now time.Time) (string, Stage) {
	ExtractBookingDetails(c, message)

	if c.PreferredDate == "" {
		res := e.resolver.WithHorizon(e.bookingHorizonDays).Resolve(message, now)
		switch {
		case res.Success && res.Valid:
			c.PreferredDate = res.Date.Format("2006-01-02")
		case res.Success && !res.Valid:
			// A date was understood but fails the business rules; surface the
			// reason and alternatives instead of silently dropping it.
			msg := res.ValidationMessage
			if len(res.Suggestions) > 0 {
				msg = fmt.Sprintf("%s You could try: %s.", msg, strings.Join(res.Suggestions, ", "))
			}
			return msg, StageBookingDetails
		}
	}

	missing := missingBookingSlots(c)
	if len(missing) == 0 {
		return e.templates.Render(ScenarioAskPaymentMethod, c.Language, ""), StagePaymentProcessing
	}
	return e.templates.Render(bookingSlotPrompts[missing[0]], c.Language, ""), StageBookingDetails
}

var bookingSlotPrompts = map[string]Scenario{
	"customer_name":  ScenarioAskName,
	"phone":          ScenarioAskPhone,
	"postal_code":    ScenarioAskPostalCode,
	"preferred_date": ScenarioAskPreferredDate,
	"service_type":   ScenarioAskServiceType,
	"address":        ScenarioAskAddress,
}

// missingBookingSlots lists the unfilled booking slots in prompt order. The
// address is required only for an on-site property visit.
func missingBookingSlots(c *Context) []string {
	var missing []string
	if c.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.PostalCode == "" {
		missing = append(missing, "postal_code")
	}
	if c.PreferredDate == "" {
		missing = append(missing, "preferred_date")
	}
	if c.ServiceType == "" {
		missing = append(missing, "service_type")
	}
	if c.ServiceType == ServicePropertyVisit && c.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

func (e *Engine) handlePaymentProcessing(c *Context, message string, _ time.Time) (string, Stage) {
	switch {
	case containsAnyWord(message, onlinePaymentWords):
		c.PaymentMethod = PaymentOnline
	case containsAnyWord(message, cashPaymentWords):
		c.PaymentMethod = PaymentCash
	default:
		return e.templates.Render(ScenarioClarifyPayment, c.Language, ""), StagePaymentProcessing
	}
	return e.templates.Render(ScenarioConfirmation, c.Language, ""), StageConfirmation
}

func (e *Engine) handleConfirmation(c *Context, _ string, _ time.Time) (string, Stage) {
	return e.templates.Render(ScenarioConfirmation, c.Language, ""), StageConfirmation
}

func (e *Engine) handleEscalation(c *Context, _ string, _ time.Time) (string, Stage) {
	return e.templates.Render(ScenarioEscalation, c.Language, ""), StageEscalation
}
