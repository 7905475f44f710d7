package conversation

import "time"

// Stage is a discrete state in the dialogue state machine.
type Stage string

const (
	StageGreeting              Stage = "greeting"
	StageProblemIdentification Stage = "problem_identification"
	StageInformationGathering  Stage = "information_gathering"
	StageRecommendation        Stage = "recommendation"
	StageBookingDetails        Stage = "booking_details"
	StagePaymentProcessing     Stage = "payment_processing"
	StageConfirmation          Stage = "confirmation"
	StageEscalation            Stage = "escalation"
)

// knownStages is the closed set of valid stages. Anything outside it is
// self-healed to StageInformationGathering by the engine.
var knownStages = map[Stage]struct{}{
	StageGreeting:              {},
	StageProblemIdentification: {},
	StageInformationGathering:  {},
	StageRecommendation:        {},
	StageBookingDetails:        {},
	StagePaymentProcessing:     {},
	StageConfirmation:          {},
	StageEscalation:            {},
}

// Concern is the classified category of customer need.
type Concern string

const (
	ConcernHighAssessment    Concern = "high_assessment"
	ConcernMissingExemption  Concern = "missing_exemption"
	ConcernAppealDeadline    Concern = "appeal_deadline"
	ConcernPaymentDifficulty Concern = "payment_difficulty"
	ConcernDocumentationHelp Concern = "documentation_help"
	ConcernGeneralInquiry    Concern = "general_inquiry"
)

// Language is an ISO-639-1 style code for a supported response language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// DefaultLanguage is the fallback when detection is inconclusive.
const DefaultLanguage = LanguageEnglish

// Service types collected during booking.
const (
	ServicePropertyVisit      = "property_visit"
	ServiceOfficeConsultation = "office_consultation"
)

// Payment methods collected during payment processing.
const (
	PaymentOnline = "online"
	PaymentCash   = "cash"
)

// Context carries everything known about one active session. Named slots use
// the zero value ("" or nil) for "not yet extracted"; extraction may overwrite
// a filled slot with a later match but never clears one back to empty.
type Context struct {
	SessionID  string
	CustomerID string
	Language   Language
	Stage      Stage
	Concern    Concern // empty until classified

	PropertyType     string
	County           string
	AssessmentAmount *float64
	CustomerName     string
	Phone            string
	PostalCode       string
	PreferredDate    string // YYYY-MM-DD once resolved
	ServiceType      string
	PaymentMethod    string
	Address          string

	// CollectedInfo holds extension fields with no named slot.
	CollectedInfo map[string]string

	// PreviousMessages is append-only, in arrival order.
	PreviousMessages []string

	CreatedAt    time.Time
	LastActiveAt time.Time
}

// NewContext creates a fresh context at the greeting stage.
func NewContext(sessionID, customerID string, now time.Time) *Context {
	if customerID == "" {
		customerID = "unknown"
	}
	return &Context{
		SessionID:     sessionID,
		CustomerID:    customerID,
		Language:      DefaultLanguage,
		Stage:         StageGreeting,
		CollectedInfo: make(map[string]string),
		CreatedAt:     now,
		LastActiveAt:  now,
	}
}

// RecordMessage appends a raw inbound message to the transcript.
func (c *Context) RecordMessage(message string) {
	c.PreviousMessages = append(c.PreviousMessages, message)
}

// Snapshot is the flat, serializable projection of a Context. This is the
// shape persisted by the snapshot store and returned over the API.
type Snapshot struct {
	SessionID        string            `json:"session_id"`
	CustomerID       string            `json:"customer_id"`
	Language         string            `json:"language"`
	Stage            string            `json:"stage"`
	Concern          string            `json:"concern,omitempty"`
	PropertyType     string            `json:"property_type,omitempty"`
	County           string            `json:"county,omitempty"`
	AssessmentAmount *float64          `json:"assessment_amount,omitempty"`
	CustomerName     string            `json:"customer_name,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	PostalCode       string            `json:"postal_code,omitempty"`
	PreferredDate    string            `json:"preferred_date,omitempty"`
	ServiceType      string            `json:"service_type,omitempty"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	Address          string            `json:"address,omitempty"`
	CollectedInfo    map[string]string `json:"collected_info,omitempty"`
	MessageCount     int               `json:"message_count"`
	LastActiveAt     time.Time         `json:"last_active_at"`
}

// Snapshot projects the context into its serializable form.
func (c *Context) Snapshot() Snapshot {
	var collected map[string]string
	if len(c.CollectedInfo) > 0 {
		collected = make(map[string]string, len(c.CollectedInfo))
		for k, v := range c.CollectedInfo {
			collected[k] = v
		}
	}
	return Snapshot{
		SessionID:        c.SessionID,
		CustomerID:       c.CustomerID,
		Language:         string(c.Language),
		Stage:            string(c.Stage),
		Concern:          string(c.Concern),
		PropertyType:     c.PropertyType,
		County:           c.County,
		AssessmentAmount: c.AssessmentAmount,
		CustomerName:     c.CustomerName,
		Phone:            c.Phone,
		PostalCode:       c.PostalCode,
		PreferredDate:    c.PreferredDate,
		ServiceType:      c.ServiceType,
		PaymentMethod:    c.PaymentMethod,
		Address:          c.Address,
		CollectedInfo:    collected,
		MessageCount:     len(c.PreviousMessages),
		LastActiveAt:     c.LastActiveAt,
	}
}

// RestoreContext rebuilds a Context from a persisted snapshot. The transcript
// is not persisted, so MessageCount is informational only.
func RestoreContext(s Snapshot, now time.Time) *Context {
	ctx := NewContext(s.SessionID, s.CustomerID, now)
	if s.Language != "" {
		ctx.Language = Language(s.Language)
	}
	if s.Stage != "" {
		ctx.Stage = Stage(s.Stage)
	}
	ctx.Concern = Concern(s.Concern)
	ctx.PropertyType = s.PropertyType
	ctx.County = s.County
	ctx.AssessmentAmount = s.AssessmentAmount
	ctx.CustomerName = s.CustomerName
	ctx.Phone = s.Phone
	ctx.PostalCode = s.PostalCode
	ctx.PreferredDate = s.PreferredDate
	ctx.ServiceType = s.ServiceType
	ctx.PaymentMethod = s.PaymentMethod
	ctx.Address = s.Address
	for k, v := range s.CollectedInfo {
		ctx.CollectedInfo[k] = v
	}
	return ctx
}
