package conversation

import "testing"

func TestClassifyConcern(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Concern
	}{
		{
			name: "high assessment from complaint",
			text: "My property tax is way too much this year",
			want: ConcernHighAssessment,
		},
		{
			name: "increased keyword",
			text: "the assessed value increased again",
			want: ConcernHighAssessment,
		},
		{
			name: "missing exemption",
			text: "I never applied for the homestead exemption",
			want: ConcernMissingExemption,
		},
		{
			name: "senior exemption",
			text: "do senior citizens get a discount",
			want: ConcernMissingExemption,
		},
		{
			name: "appeal deadline",
			text: "when is the deadline to dispute my bill",
			want: ConcernAppealDeadline,
		},
		{
			name: "payment difficulty",
			text: "can I get an installment plan",
			want: ConcernPaymentDifficulty,
		},
		{
			name: "documentation help",
			text: "which form do I need to fill out",
			want: ConcernDocumentationHelp,
		},
		{
			name: "fallback general inquiry",
			text: "just curious how property taxes work",
			want: ConcernGeneralInquiry,
		},
		{
			name: "empty message",
			text: "",
			want: ConcernGeneralInquiry,
		},
		{
			name: "earlier rule wins over later keywords",
			text: "my bill is too expensive and I want an exemption",
			want: ConcernHighAssessment,
		},
		{
			name: "appeal beats payment vocabulary",
			text: "I want to appeal before I pay anything",
			want: ConcernAppealDeadline,
		},
		{
			name: "help alone is documentation",
			text: "I need some help with my taxes",
			want: ConcernDocumentationHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyConcern(tt.text); got != tt.want {
				t.Errorf("ClassifyConcern(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyConcernDeterministic(t *testing.T) {
	text := "my payment is too high and I need help with forms"
	first := ClassifyConcern(text)
	for i := 0; i < 100; i++ {
		if got := ClassifyConcern(text); got != first {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestRequiredSlotsFor(t *testing.T) {
	base := requiredSlotsFor(ConcernGeneralInquiry)
	if len(base) != 2 || base[0] != "property_type" || base[1] != "county" {
		t.Errorf("general inquiry slots = %v", base)
	}

	high := requiredSlotsFor(ConcernHighAssessment)
	if len(high) != 3 || high[2] != "assessment_amount" {
		t.Errorf("high assessment slots = %v", high)
	}
}

func TestMissingInfoSlots(t *testing.T) {
	amount := 450000.0
	tests := []struct {
		name string
		ctx  Context
		want []string
	}{
		{
			name: "all missing in priority order",
			ctx:  Context{Concern: ConcernHighAssessment},
			want: []string{"property_type", "county", "assessment_amount"},
		},
		{
			name: "amount not required for exemption concern",
			ctx:  Context{Concern: ConcernMissingExemption, PropertyType: "residential"},
			want: []string{"county"},
		},
		{
			name: "nothing missing",
			ctx: Context{
				Concern:          ConcernHighAssessment,
				PropertyType:     "residential",
				County:           "Harris",
				AssessmentAmount: &amount,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingInfoSlots(&tt.ctx)
			if len(got) != len(tt.want) {
				t.Fatalf("missingInfoSlots() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slot[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
