package domain

import "time"

// Field names shared by CSV headers, upload payloads and the scorer.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldCompany     = "company"
	FieldCompanySize = "company_size"
	FieldIndustry    = "industry"
	FieldBudget      = "budget"
	FieldPhone       = "phone"
	FieldWebsite     = "website"
)

// RequiredColumns must be present in any uploaded CSV header.
var RequiredColumns = []string{FieldName, FieldEmail, FieldCompany, FieldCompanySize, FieldIndustry, FieldBudget}

// Lead is a prospective customer record as delivered by ingestion.
type Lead struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	CompanySize string `json:"company_size"`
	Industry    string `json:"industry"`
	Budget      string `json:"budget"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
}

// LeadFromFields builds a Lead from raw field mappings. Absent keys become
// empty strings, except budget which defaults to "0".
func LeadFromFields(fields map[string]string) Lead {
	budget, ok := fields[FieldBudget]
	if !ok {
		budget = "0"
	}
	return Lead{
		Name:        fields[FieldName],
		Email:       fields[FieldEmail],
		Company:     fields[FieldCompany],
		CompanySize: fields[FieldCompanySize],
		Industry:    fields[FieldIndustry],
		Budget:      budget,
		Phone:       fields[FieldPhone],
		Website:     fields[FieldWebsite],
	}
}

// Fields returns the lead as a field mapping.
func (l Lead) Fields() map[string]string {
	return map[string]string{
		FieldName:        l.Name,
		FieldEmail:       l.Email,
		FieldCompany:     l.Company,
		FieldCompanySize: l.CompanySize,
		FieldIndustry:    l.Industry,
		FieldBudget:      l.Budget,
		FieldPhone:       l.Phone,
		FieldWebsite:     l.Website,
	}
}

// Priority is the coarse tier derived from a score.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ScoredLead pairs a lead with its score and tier.
type ScoredLead struct {
	Lead
	Score    int      `json:"score"`
	Priority Priority `json:"priority"`
}

// ProcessSummary reports the outcome of one processing run.
type ProcessSummary struct {
	TotalLeads        int    `json:"total_leads"`
	HighPriorityCount int    `json:"high_priority_count"`
	EmailsSent        int    `json:"emails_sent"`
	Message           string `json:"message"`
}

// StatusCheck is a client heartbeat persisted by the status endpoint.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}
