package scoring

import "EasyFinder/internal/domain"

// GetLeadPriority maps a score to its tier. Lower bounds are inclusive.
func GetLeadPriority(score int) domain.Priority {
	switch {
	case score >= HighThreshold:
		return domain.PriorityHigh
	case score >= MediumThreshold:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// Policy decides whether a scored lead gets outreach.
type Policy struct {
	NotifyThreshold int
}

// DefaultPolicy keeps the outreach threshold on the HIGH tier boundary.
func DefaultPolicy() Policy {
	return Policy{NotifyThreshold: HighThreshold}
}

// NewPolicy returns a policy for threshold; non-positive values fall back to
// HighThreshold.
func NewPolicy(threshold int) Policy {
	if threshold <= 0 {
		return DefaultPolicy()
	}
	return Policy{NotifyThreshold: threshold}
}

// MeetsThreshold reports whether the score is high enough for outreach,
// regardless of contact details.
func (p Policy) MeetsThreshold(score int) bool {
	return score >= p.NotifyThreshold
}

// ShouldNotify reports whether outreach should be attempted.
func (p Policy) ShouldNotify(score int, email string) bool {
	return p.MeetsThreshold(score) && email != ""
}

// ShouldNotify applies the default policy.
func ShouldNotify(score int, email string) bool {
	return DefaultPolicy().ShouldNotify(score, email)
}
