package conversation

// Scenario identifies a response template. The engine decides which scenario
// and variant to render; how the text is produced belongs to the provider.
type Scenario string

const (
	ScenarioGreeting           Scenario = "greeting"
	ScenarioAskConcern         Scenario = "ask_concern"
	ScenarioAskPropertyType    Scenario = "ask_property_type"
	ScenarioAskCounty          Scenario = "ask_county"
	ScenarioAskAssessment      Scenario = "ask_assessment_amount"
	ScenarioRecommendation     Scenario = "recommendation"
	ScenarioOfferAlternatives  Scenario = "offer_alternatives"
	ScenarioClarifyBooking     Scenario = "clarify_booking_intent"
	ScenarioAskName            Scenario = "ask_name"
	ScenarioAskPhone           Scenario = "ask_phone"
	ScenarioAskPostalCode      Scenario = "ask_postal_code"
	ScenarioAskPreferredDate   Scenario = "ask_preferred_date"
	ScenarioAskServiceType     Scenario = "ask_service_type"
	ScenarioAskAddress         Scenario = "ask_address"
	ScenarioAskPaymentMethod   Scenario = "ask_payment_method"
	ScenarioClarifyPayment     Scenario = "clarify_payment_method"
	ScenarioConfirmation       Scenario = "confirmation"
	ScenarioEscalation         Scenario = "escalation"
	ScenarioGeneralHelp        Scenario = "general_help"
)

// TemplateProvider renders response text for a scenario in a language.
// variant selects a concern-specific flavor where one exists (e.g. the
// recommendation text per concern); providers fall back to a generic variant.
type TemplateProvider interface {
	Render(scenario Scenario, lang Language, variant string) string
	LegalDisclaimer(lang Language, topic string) string
}

// defaultTemplates is the built-in English/Spanish provider.
type defaultTemplates struct{}

// NewDefaultTemplates returns the built-in template provider.
func NewDefaultTemplates() TemplateProvider {
	return defaultTemplates{}
}

var englishTemplates = map[Scenario]string{
	ScenarioGreeting:          "Hello! I'm your property tax assistant. What can I help you with today?",
	ScenarioAskConcern:        "Could you tell me a bit more about your property tax concern?",
	ScenarioAskPropertyType:   "Is this a residential, commercial, or land property?",
	ScenarioAskCounty:         "Which county is the property located in?",
	ScenarioAskAssessment:     "What is the assessed value on your notice? An approximate amount is fine.",
	ScenarioOfferAlternatives: "No problem. I can also help you review your assessment notice, check exemption eligibility, or explain the appeal process. Would any of those help?",
	ScenarioClarifyBooking:    "Would you like to book a consultation with one of our specialists? A simple yes or no works.",
	ScenarioAskName:           "Great, let's set that up. May I have your full name?",
	ScenarioAskPhone:          "What's the best 10-digit phone number to reach you?",
	ScenarioAskPostalCode:     "And your 6-digit postal code?",
	ScenarioAskPreferredDate:  "What date works for you? You can say things like \"tomorrow\", \"next Friday\", or \"15/03\".",
	ScenarioAskServiceType:    "Would you prefer a property visit or an office consultation?",
	ScenarioAskAddress:        "Since you chose a property visit, what's the property address?",
	ScenarioAskPaymentMethod:  "How would you like to pay the consultation fee: online, or cash at the office?",
	ScenarioClarifyPayment:    "Sorry, I didn't catch that. Please choose online payment or cash at the office.",
	ScenarioConfirmation:      "You're all set! We've recorded your booking details and you'll receive a confirmation shortly.",
	ScenarioEscalation:        "I'm connecting you with a specialist who can help further. Please hold on.",
	ScenarioGeneralHelp:       "I can help with high assessments, exemptions, appeals, payment plans, and paperwork. What's on your mind?",
}

// recommendationByConcern maps a concern variant to its recommendation text.
var recommendationByConcern = map[string]string{
	string(ConcernHighAssessment):    "Based on what you've shared, your assessment looks worth challenging. Our specialists can review comparable properties and file a protest on your behalf. Shall I book a consultation?",
	string(ConcernMissingExemption):  "You may qualify for exemptions that reduce your bill. A specialist can confirm eligibility and handle the filing. Shall I book a consultation?",
	string(ConcernAppealDeadline):    "Appeal deadlines are strict, so it's best to act quickly. A specialist can prepare and file your appeal. Shall I book a consultation?",
	string(ConcernPaymentDifficulty): "There are installment and deferral options that may fit your situation. A specialist can walk you through them. Shall I book a consultation?",
	string(ConcernDocumentationHelp): "Our specialists can prepare and review all the required forms with you. Shall I book a consultation?",
	string(ConcernGeneralInquiry):    "A short consultation with one of our specialists is the fastest way to get tailored answers. Shall I book one for you?",
}

var spanishTemplates = map[Scenario]string{
	ScenarioGreeting:         "¡Hola! Soy su asistente de impuestos de propiedad. ¿En qué puedo ayudarle hoy?",
	ScenarioAskConcern:       "¿Podría contarme un poco más sobre su consulta de impuestos?",
	ScenarioAskPropertyType:  "¿Es una propiedad residencial, comercial o un terreno?",
	ScenarioAskCounty:        "¿En qué condado se encuentra la propiedad?",
	ScenarioAskAssessment:    "¿Cuál es el valor de tasación en su aviso? Un monto aproximado está bien.",
	ScenarioClarifyBooking:   "¿Le gustaría reservar una consulta con uno de nuestros especialistas?",
	ScenarioAskName:          "Perfecto. ¿Me puede dar su nombre completo?",
	ScenarioAskPhone:         "¿Cuál es el mejor número de teléfono de 10 dígitos para contactarle?",
	ScenarioAskPostalCode:    "¿Y su código postal de 6 dígitos?",
	ScenarioAskPreferredDate: "¿Qué fecha le conviene? Puede decir \"mañana\" o \"15/03\".",
	ScenarioAskServiceType:   "¿Prefiere una visita a la propiedad o una consulta en oficina?",
	ScenarioAskAddress:       "Como eligió una visita a la propiedad, ¿cuál es la dirección?",
	ScenarioAskPaymentMethod: "¿Cómo desea pagar la consulta: en línea o en efectivo en la oficina?",
	ScenarioClarifyPayment:   "Disculpe, no entendí. Elija pago en línea o efectivo en la oficina.",
	ScenarioConfirmation:     "¡Listo! Hemos registrado su reserva y recibirá una confirmación en breve.",
	ScenarioEscalation:       "Le estoy conectando con un especialista. Un momento por favor.",
	ScenarioGeneralHelp:      "Puedo ayudarle con tasaciones altas, exenciones, apelaciones, planes de pago y trámites. ¿Qué necesita?",
}

func (defaultTemplates) Render(scenario Scenario, lang Language, variant string) string {
	if scenario == ScenarioRecommendation {
		if text, ok := recommendationByConcern[variant]; ok {
			return text
		}
		return recommendationByConcern[string(ConcernGeneralInquiry)]
	}
	if lang == LanguageSpanish {
		if text, ok := spanishTemplates[scenario]; ok {
			return text
		}
	}
	if text, ok := englishTemplates[scenario]; ok {
		return text
	}
	return englishTemplates[ScenarioGeneralHelp]
}

func (defaultTemplates) LegalDisclaimer(lang Language, topic string) string {
	base := "This assistant provides general property tax information, not legal advice."
	if lang == LanguageSpanish {
		base = "Este asistente ofrece información general sobre impuestos de propiedad, no asesoría legal."
	}
	if topic == string(ConcernAppealDeadline) {
		if lang == LanguageSpanish {
			return base + " Los plazos de apelación los fija su condado."
		}
		return base + " Appeal deadlines are set by your county."
	}
	return base
}
