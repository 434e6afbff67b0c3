// Package scoring holds the lead scoring rules and the priority/dispatch policy.
// Everything here is pure and safe for concurrent use.
package scoring

import (
	"strings"

	"EasyFinder/internal/domain"
)

const (
	// MaxScore caps the sum of all rule contributions.
	MaxScore = 100

	// HighThreshold is the lower bound of the HIGH tier and the default
	// outreach threshold.
	HighThreshold = 70

	// MediumThreshold is the lower bound of the MEDIUM tier.
	MediumThreshold = 40

	highBudget   = 50000
	mediumBudget = 25000
)

var (
	tierAIndustries = map[string]struct{}{"construction": {}, "logistics": {}, "equipment": {}}
	tierBIndustries = map[string]struct{}{"manufacturing": {}, "transportation": {}, "retail": {}}
)

// Breakdown lists the contribution of every rule group.
type Breakdown struct {
	CompanySize int `json:"company_size"`
	Budget      int `json:"budget"`
	Industry    int `json:"industry"`
	Email       int `json:"email"`
	Total       int `json:"total"`
}

// ScoreLead returns the lead's score in [0, MaxScore].
func ScoreLead(lead domain.Lead) int {
	return Explain(lead).Total
}

// ScoreFields scores a raw field mapping. Missing keys take the defaults of
// domain.LeadFromFields.
func ScoreFields(fields map[string]string) int {
	return ScoreLead(domain.LeadFromFields(fields))
}

// Explain evaluates each rule group independently and reports the clamped total.
func Explain(lead domain.Lead) Breakdown {
	b := Breakdown{
		CompanySize: companySizePoints(lead.CompanySize),
		Budget:      budgetPoints(lead.Budget),
		Industry:    industryPoints(lead.Industry),
		Email:       emailPoints(lead.Email),
	}
	b.Total = min(b.CompanySize+b.Budget+b.Industry+b.Email, MaxScore)
	return b
}

func companySizePoints(size string) int {
	switch strings.ToLower(size) {
	case "enterprise":
		return 40
	case "medium":
		return 25
	case "small":
		return 10
	default:
		return 0
	}
}

func budgetPoints(raw string) int {
	switch {
	case amountExceeds(raw, highBudget):
		return 30
	case amountExceeds(raw, mediumBudget):
		return 15
	default:
		return 0
	}
}

func industryPoints(industry string) int {
	industry = strings.ToLower(industry)
	if _, ok := tierAIndustries[industry]; ok {
		return 20
	}
	if _, ok := tierBIndustries[industry]; ok {
		return 10
	}
	return 0
}

func emailPoints(email string) int {
	if email != "" && strings.Contains(email, "@") {
		return 10
	}
	return 0
}
