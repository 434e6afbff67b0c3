package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EasyFinder/internal/domain"
)

func TestScoreFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]string
		want   int
	}{
		{"empty record", map[string]string{}, 0},
		{
			name: "max on every dimension, mixed case",
			fields: map[string]string{
				"company_size": "Enterprise",
				"budget":       "$60,000",
				"industry":     "Construction",
				"email":        "a@b.com",
			},
			want: 100,
		},
		{
			name: "small retail without email",
			fields: map[string]string{
				"company_size": "small",
				"budget":       "30000",
				"industry":     "retail",
				"email":        "",
			},
			want: 35,
		},
		{"non-numeric budget", map[string]string{"budget": "abc123"}, 0},
		{"medium logistics", map[string]string{"company_size": "MEDIUM", "industry": "logistics"}, 45},
		{"email without at sign", map[string]string{"email": "nobody"}, 0},
		{"unknown categories", map[string]string{"company_size": "huge", "industry": "farming"}, 0},
		{"padded category is not trimmed", map[string]string{"company_size": " enterprise"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ScoreFields(tt.fields))
		})
	}
}

func TestBudgetPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		budget string
		want   int
	}{
		{"$60,000", 30},
		{"50001", 30},
		{"50000", 15},
		{"25001", 15},
		{"25000", 0},
		{" 75000 ", 30},
		{"000060000", 30},
		{"0000", 0},
		{"99999999999999999999999999", 30},
		{"-60000", 0},
		{"60000.00", 0},
		{"60k", 0},
		{"", 0},
		{"$,", 0},
		{"\uff16\uff10\uff10\uff10\uff10", 0},
		{"\u0666\u0660\u0660\u0660\u0660", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, budgetPoints(tt.budget), "budget %q", tt.budget)
	}
}

func TestExplainMatchesScore(t *testing.T) {
	t.Parallel()

	lead := domain.Lead{
		CompanySize: "medium",
		Budget:      "40,000",
		Industry:    "Equipment",
		Email:       "buyer@example.com",
	}

	b := Explain(lead)
	assert.Equal(t, Breakdown{CompanySize: 25, Budget: 15, Industry: 20, Email: 10, Total: 70}, b)
	assert.Equal(t, b.Total, ScoreLead(lead))
}

func TestScoreLeadIsIdempotent(t *testing.T) {
	t.Parallel()

	fields := map[string]string{"company_size": "enterprise", "budget": "$51,000", "email": "x@y.z"}
	first := ScoreFields(fields)
	second := ScoreFields(fields)

	require.Equal(t, first, second)
	assert.Equal(t, map[string]string{"company_size": "enterprise", "budget": "$51,000", "email": "x@y.z"}, fields)
}

func TestScoreAlwaysInRange(t *testing.T) {
	t.Parallel()

	sizes := []string{"", "enterprise", "medium", "small", "other"}
	budgets := []string{"", "0", "30000", "$90,000", "junk"}
	industries := []string{"", "construction", "retail", "other"}
	emails := []string{"", "a@b", "ab"}

	for _, size := range sizes {
		for _, budget := range budgets {
			for _, industry := range industries {
				for _, email := range emails {
					score := ScoreLead(domain.Lead{CompanySize: size, Budget: budget, Industry: industry, Email: email})
					require.GreaterOrEqual(t, score, 0)
					require.LessOrEqual(t, score, MaxScore)
				}
			}
		}
	}
}

func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1234567", NormalizeAmount(" $1,234,567\t"))
	assert.True(t, IsWholeNumber("0042"))
	assert.False(t, IsWholeNumber(""))
	assert.False(t, IsWholeNumber("4 2"))
	assert.False(t, IsWholeNumber("\uff14\uff12"), "fullwidth digits are not ASCII")
}
