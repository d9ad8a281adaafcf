package domain

// ValidationRule identifies a booking validation rule
type ValidationRule string

const (
	RuleRequiredFields ValidationRule = "required_fields"
	RuleShoeCount      ValidationRule = "shoe_count"
	RuleShoeSizes      ValidationRule = "shoe_sizes"
	RuleLaneCapacity   ValidationRule = "lane_capacity"
)

// ValidationError draft rejected by a validation rule.
// Message is shown to the user verbatim.
type ValidationError struct {
	Rule    ValidationRule
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + string(e.Rule) + ": " + e.Message
}
