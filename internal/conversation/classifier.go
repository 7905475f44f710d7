package conversation

import "strings"

// concernRule pairs a concern with the keywords that indicate it.
type concernRule struct {
	concern  Concern
	keywords []string
}

// concernRules is evaluated strictly in order and the first match wins.
// Several categories share vocabulary ("payment" appears in complaints about
// high bills too), so the ordering is part of the observable contract. Keep
// it as a single ordered table, not scattered conditionals.
var concernRules = []concernRule{
	{ConcernHighAssessment, []string{"high", "increased", "too much", "expensive"}},
	{ConcernMissingExemption, []string{"exemption", "homestead", "senior", "disability"}},
	{ConcernAppealDeadline, []string{"appeal", "deadline", "time limit", "dispute"}},
	{ConcernPaymentDifficulty, []string{"payment", "pay", "installment", "afford"}},
	{ConcernDocumentationHelp, []string{"document", "paperwork", "form", "help"}},
}

// ClassifyConcern maps free text to a concern category. It is a pure
// function: identical input always yields the identical concern.
func ClassifyConcern(text string) Concern {
	lower := strings.ToLower(text)
	for _, rule := range concernRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.concern
			}
		}
	}
	return ConcernGeneralInquiry
}

// requiredSlotsFor returns the information slots that must be filled before
// the conversation can advance to a recommendation, in prompt-priority order.
func requiredSlotsFor(concern Concern) []string {
	slots := []string{"property_type", "county"}
	if concern == ConcernHighAssessment {
		slots = append(slots, "assessment_amount")
	}
	return slots
}

// missingInfoSlots lists the still-empty required slots in priority order.
func missingInfoSlots(c *Context) []string {
	var missing []string
	for _, slot := range requiredSlotsFor(c.Concern) {
		switch slot {
		case "property_type":
			if c.PropertyType == "" {
				missing = append(missing, slot)
			}
		case "county":
			if c.County == "" {
				missing = append(missing, slot)
			}
		case "assessment_amount":
			if c.AssessmentAmount == nil {
				missing = append(missing, slot)
			}
		}
	}
	return missing
}
