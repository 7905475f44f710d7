package conversation

import (
	"strings"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(newTestResolver(), NewDefaultTemplates(), 30)
}

func TestGreetingStage(t *testing.T) {
	e := newTestEngine()

	t.Run("pure greeting advances to problem identification", func(t *testing.T) {
		c := NewContext("s1", "c1", wednesday)
		e.Process(c, "hello", wednesday)
		if c.Stage != StageProblemIdentification {
			t.Errorf("stage = %v, want %v", c.Stage, StageProblemIdentification)
		}
	})

	t.Run("direct concern skips the pleasantries", func(t *testing.T) {
		c := NewContext("s1", "c1", wednesday)
		e.Process(c, "my property tax is too high this year", wednesday)
		if c.Concern != ConcernHighAssessment {
			t.Errorf("concern = %v, want %v", c.Concern, ConcernHighAssessment)
		}
		if c.Stage != StageInformationGathering {
			t.Errorf("stage = %v, want %v", c.Stage, StageInformationGathering)
		}
	})
}

func TestInformationGatheringPrompts(t *testing.T) {
	e := newTestEngine()
	c := NewContext("s1", "c1", wednesday)
	c.Stage = StageProblemIdentification

	resp := e.Process(c, "my assessment is too high", wednesday)
	if c.Stage != StageInformationGathering {
		t.Fatalf("stage = %v", c.Stage)
	}
	if !strings.Contains(resp, "residential") {
		t.Errorf("expected a property-type prompt, got %q", resp)
	}

	resp = e.Process(c, "it's a residential home", wednesday)
	if !strings.Contains(strings.ToLower(resp), "county") {
		t.Errorf("expected a county prompt, got %q", resp)
	}

	resp = e.Process(c, "harris county", wednesday)
	if !strings.Contains(strings.ToLower(resp), "value") {
		t.Errorf("expected an assessment prompt, got %q", resp)
	}

	e.Process(c, "$450,000", wednesday)
	if c.Stage != StageRecommendation {
		t.Errorf("stage = %v, want %v", c.Stage, StageRecommendation)
	}
}

func TestRecommendationStage(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name      string
		message   string
		wantStage Stage
	}{
		{"affirmative books", "yes please book it", StageBookingDetails},
		{"negative offers alternatives", "no thanks", StageRecommendation},
		{"unclear asks again", "hmm maybe later", StageRecommendation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext("s1", "c1", wednesday)
			c.Stage = StageRecommendation
			c.Concern = ConcernHighAssessment
			e.Process(c, tt.message, wednesday)
			if c.Stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", c.Stage, tt.wantStage)
			}
		})
	}
}

func TestBookingDetailsFlow(t *testing.T) {
	e := newTestEngine()
	c := NewContext("s1", "c1", wednesday)
	c.Stage = StageBookingDetails
	c.Concern = ConcernHighAssessment

	steps := []struct {
		message   string
		wantStage Stage
	}{
		{"My name is John Smith", StageBookingDetails},
		{"9876543210", StageBookingDetails},
		{"560001", StageBookingDetails},
		{"tomorrow", StageBookingDetails},
		{"office consultation please", StagePaymentProcessing},
	}
	for _, step := range steps {
		e.Process(c, step.message, wednesday)
		if c.Stage != step.wantStage {
			t.Fatalf("after %q: stage = %v, want %v", step.message, c.Stage, step.wantStage)
		}
	}

	if c.CustomerName != "John Smith" || c.Phone != "9876543210" || c.PostalCode != "560001" {
		t.Errorf("booking slots incomplete: %+v", c)
	}
	if c.PreferredDate != "2026-03-12" {
		t.Errorf("PreferredDate = %q, want 2026-03-12", c.PreferredDate)
	}
	if c.ServiceType != ServiceOfficeConsultation {
		t.Errorf("ServiceType = %q", c.ServiceType)
	}
}

func TestBookingDetailsRejectsInvalidDate(t *testing.T) {
	e := newTestEngine()
	c := NewContext("s1", "c1", wednesday)
	c.Stage = StageBookingDetails
	c.CustomerName = "John Smith"
	c.Phone = "9876543210"
	c.PostalCode = "560001"

	resp := e.Process(c, "10/03", wednesday)
	if c.Stage != StageBookingDetails {
		t.Errorf("stage = %v, want to stay in booking details", c.Stage)
	}
	if c.PreferredDate != "" {
		t.Errorf("PreferredDate = %q, past date must not be accepted", c.PreferredDate)
	}
	if !strings.Contains(resp, "passed") {
		t.Errorf("response should explain the rejection, got %q", resp)
	}
}

func TestBookingDetailsRequiresAddressForVisit(t *testing.T) {
	e := newTestEngine()
	c := NewContext("s1", "c1", wednesday)
	c.Stage = StageBookingDetails
	c.CustomerName = "John Smith"
	c.Phone = "9876543210"
	c.PostalCode = "560001"
	c.PreferredDate = "2026-03-12"

	e.Process(c, "a property visit would be great", wednesday)
	if c.Stage != StageBookingDetails {
		t.Fatalf("stage = %v, address still missing", c.Stage)
	}

	e.Process(c, "my address is 42 Oak Street, Houston", wednesday)
	if c.Stage != StagePaymentProcessing {
		t.Errorf("stage = %v, want %v", c.Stage, StagePaymentProcessing)
	}
	if c.Address == "" {
		t.Error("address not captured")
	}
}

func TestPaymentProcessingStage(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name       string
		message    string
		wantMethod string
		wantStage  Stage
	}{
		{"online", "online payment please", PaymentOnline, StageConfirmation},
		{"card counts as online", "I'll use my credit card", PaymentOnline, StageConfirmation},
		{"cash", "cash when I come in", PaymentCash, StageConfirmation},
		{"unclear stays put", "whatever is easiest", "", StagePaymentProcessing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext("s1", "c1", wednesday)
			c.Stage = StagePaymentProcessing
			e.Process(c, tt.message, wednesday)
			if c.PaymentMethod != tt.wantMethod {
				t.Errorf("PaymentMethod = %q, want %q", c.PaymentMethod, tt.wantMethod)
			}
			if c.Stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", c.Stage, tt.wantStage)
			}
		})
	}
}

func TestUnknownStageSelfHeals(t *testing.T) {
	e := newTestEngine()
	c := NewContext("s1", "c1", wednesday)
	c.Stage = Stage("corrupted_value")

	e.Process(c, "residential property in harris county", wednesday)
	if _, ok := knownStages[c.Stage]; !ok {
		t.Fatalf("stage %q is outside the valid set", c.Stage)
	}
	if c.Stage != StageRecommendation {
		t.Errorf("stage = %v, want %v after healing into gathering", c.Stage, StageRecommendation)
	}
}

func TestStageGraphEdges(t *testing.T) {
	// Valid forward edges per stage; a processed message must never land
	// anywhere else.
	allowed := map[Stage][]Stage{
		StageGreeting:              {StageProblemIdentification, StageInformationGathering, StageRecommendation},
		StageProblemIdentification: {StageInformationGathering, StageRecommendation},
		StageInformationGathering:  {StageInformationGathering, StageRecommendation},
		StageRecommendation:        {StageRecommendation, StageBookingDetails},
		StageBookingDetails:        {StageBookingDetails, StagePaymentProcessing},
		StagePaymentProcessing:     {StagePaymentProcessing, StageConfirmation},
		StageConfirmation:          {StageConfirmation},
		StageEscalation:            {StageEscalation},
	}
	messages := []string{
		"hello", "my tax is too high", "residential in harris county",
		"$450,000", "yes", "no", "My name is John Smith 9876543210",
		"tomorrow", "online", "cash", "gibberish",
	}

	e := newTestEngine()
	for from, targets := range allowed {
		for _, msg := range messages {
			c := NewContext("s1", "c1", wednesday)
			c.Stage = from
			c.Concern = ConcernGeneralInquiry
			e.Process(c, msg, wednesday)

			ok := false
			for _, target := range targets {
				if c.Stage == target {
					ok = true
					break
				}
			}
			if !ok {
				t.Errorf("illegal edge %v -> %v on %q", from, c.Stage, msg)
			}
		}
	}
}

func TestProcessRecordsTranscript(t *testing.T) {
	e := newTestEngine()
	c := NewContext("s1", "c1", wednesday)
	e.Process(c, "hello", wednesday)
	e.Process(c, "my tax is too high", wednesday)
	if len(c.PreviousMessages) != 2 {
		t.Errorf("transcript length = %d, want 2", len(c.PreviousMessages))
	}
	if c.PreviousMessages[0] != "hello" {
		t.Errorf("transcript out of order: %v", c.PreviousMessages)
	}
}

func TestContainsAnyWord(t *testing.T) {
	tests := []struct {
		message string
		words   []string
		want    bool
	}{
		{"I know the answer", negativeWords, false},
		{"no, show me something else", negativeWords, true},
		{"now is fine", []string{"no"}, false},
		{"sounds good to me", affirmativeWords, true},
		{"Yes!", affirmativeWords, true},
	}
	for _, tt := range tests {
		if got := containsAnyWord(tt.message, tt.words); got != tt.want {
			t.Errorf("containsAnyWord(%q, %v) = %v, want %v", tt.message, tt.words, got, tt.want)
		}
	}
}
