package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/metrics"
	"EasyFinder/internal/ports"
	"EasyFinder/internal/scoring"
)

const defaultGreetingName = "there"

// ErrNoLeadStore is returned by Upload when the source cannot be replaced.
var ErrNoLeadStore = errors.New("lead source does not accept uploads")

// PipelineDeps wires all driven adapters into the lead pipeline.
type PipelineDeps struct {
	Source   ports.LeadSource
	Activity ports.ActivityLog
	Outreach ports.Outreach
	Notifier ports.Notifier
	Policy   scoring.Policy
	Metrics  *metrics.LeadMetrics
	Logger   *slog.Logger
	Workers  int
	Now      func() time.Time
}

// Pipeline scores leads and applies the outreach policy.
type Pipeline struct {
	source   ports.LeadSource
	activity ports.ActivityLog
	outreach ports.Outreach
	notifier ports.Notifier
	policy   scoring.Policy
	metrics  *metrics.LeadMetrics
	logger   *slog.Logger
	workers  int
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:   deps.Source,
		activity: deps.Activity,
		outreach: deps.Outreach,
		notifier: deps.Notifier,
		policy:   deps.Policy,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		workers:  deps.Workers,
		now:      deps.Now,
	}
	if p.policy.NotifyThreshold <= 0 {
		p.policy = scoring.DefaultPolicy()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Policy returns the outreach policy in effect.
func (p *Pipeline) Policy() scoring.Policy {
	return p.policy
}

// List returns every lead scored, highest score first. Ties keep input order.
func (p *Pipeline) List(ctx context.Context) ([]domain.ScoredLead, error) {
	leads, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	scored, err := p.scoreAll(ctx, leads)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(scored, func(a, b domain.ScoredLead) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored, nil
}

// Evaluation is the scoring verdict for a single lead.
type Evaluation struct {
	domain.ScoredLead
	ShouldNotify bool              `json:"should_notify"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
}

// Evaluate scores one lead without side effects.
func (p *Pipeline) Evaluate(lead domain.Lead) Evaluation {
	breakdown := scoring.Explain(lead)
	return Evaluation{
		ScoredLead: domain.ScoredLead{
			Lead:     lead,
			Score:    breakdown.Total,
			Priority: scoring.GetLeadPriority(breakdown.Total),
		},
		ShouldNotify: p.policy.ShouldNotify(breakdown.Total, lead.Email),
		Breakdown:    breakdown,
	}
}

// OutreachStatus is what happened to a lead after scoring.
type OutreachStatus string

const (
	OutreachNone    OutreachStatus = ""
	OutreachSent    OutreachStatus = "sent"
	OutreachFailed  OutreachStatus = "failed"
	OutreachSkipped OutreachStatus = "skipped"
)

// Outcome pairs a scored lead with its outreach result.
type Outcome struct {
	domain.ScoredLead
	Outreach OutreachStatus `json:"outreach,omitempty"`
}

// Report is a full processing run in input order.
type Report struct {
	Summary  domain.ProcessSummary `json:"summary"`
	Outcomes []Outcome             `json:"outcomes"`
}

// Process scores every lead, records the audit trail and triggers outreach
// for leads that clear the policy threshold.
func (p *Pipeline) Process(ctx context.Context) (domain.ProcessSummary, error) {
	report, err := p.Run(ctx)
	if err != nil {
		return domain.ProcessSummary{}, err
	}
	return report.Summary, nil
}

// Run is Process with the per-lead outcomes kept.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	leads, err := p.load(ctx)
	if err != nil {
		return Report{}, err
	}

	scored, err := p.scoreAll(ctx, leads)
	if err != nil {
		return Report{}, err
	}

	report := Report{Outcomes: make([]Outcome, 0, len(scored))}
	summary := &report.Summary
	summary.TotalLeads = len(scored)
	for _, lead := range scored {
		p.metrics.ObserveScored(string(lead.Priority))
		p.record(ctx, domain.EventLeadScored, map[string]any{
			"name":     lead.Name,
			"email":    lead.Email,
			"company":  lead.Company,
			"score":    lead.Score,
			"priority": string(lead.Priority),
		})

		outcome := Outcome{ScoredLead: lead}
		if p.policy.MeetsThreshold(lead.Score) {
			summary.HighPriorityCount++
			outcome.Outreach = p.dispatch(ctx, lead)
			if outcome.Outreach == OutreachSent {
				summary.EmailsSent++
			}
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	summary.Message = fmt.Sprintf("Processed %d leads successfully", summary.TotalLeads)
	p.metrics.ObserveRun()
	p.record(ctx, domain.EventProcessCompleted, map[string]any{
		"total_leads":         summary.TotalLeads,
		"high_priority_count": summary.HighPriorityCount,
		"emails_sent":         summary.EmailsSent,
	})
	p.logger.Info("processing complete",
		"total", summary.TotalLeads,
		"high_priority", summary.HighPriorityCount,
		"emails_sent", summary.EmailsSent)

	if p.notifier != nil && summary.TotalLeads > 0 {
		if err := p.notifier.PublishDigest(ctx, BuildDigestMessage(report.Summary, p.policy)); err != nil {
			p.logger.Warn("publish digest failed", "error", err)
		}
	}

	return report, nil
}

// dispatch attempts outreach for a lead that met the threshold.
func (p *Pipeline) dispatch(ctx context.Context, lead domain.ScoredLead) OutreachStatus {
	if !p.policy.ShouldNotify(lead.Score, lead.Email) {
		p.metrics.ObserveOutreach(string(OutreachSkipped))
		p.record(ctx, domain.EventEmailSkipped, map[string]any{
			"name":   lead.Name,
			"score":  lead.Score,
			"reason": "no email address",
		})
		return OutreachSkipped
	}

	if p.outreach == nil {
		p.logger.Warn("outreach is not configured", "email", lead.Email)
		p.metrics.ObserveOutreach(string(OutreachFailed))
		p.record(ctx, domain.EventEmailFailed, map[string]any{
			"to":    lead.Email,
			"score": lead.Score,
			"error": "outreach not configured",
		})
		return OutreachFailed
	}

	name := lead.Name
	if name == "" {
		name = defaultGreetingName
	}

	sent, err := p.outreach.SendNDA(ctx, lead.Email, name, lead.Company)
	if !sent {
		data := map[string]any{"to": lead.Email, "score": lead.Score}
		if err != nil {
			data["error"] = err.Error()
		}
		p.metrics.ObserveOutreach(string(OutreachFailed))
		p.record(ctx, domain.EventEmailFailed, data)
		p.logger.Warn("nda email failed", "email", lead.Email, "error", err)
		return OutreachFailed
	}

	p.metrics.ObserveOutreach(string(OutreachSent))
	p.record(ctx, domain.EventEmailSent, map[string]any{
		"to":      lead.Email,
		"name":    name,
		"company": lead.Company,
		"score":   lead.Score,
	})
	return OutreachSent
}

// Upload validates and stores a new CSV lead set.
func (p *Pipeline) Upload(ctx context.Context, filename string, content []byte) error {
	store, ok := p.source.(ports.LeadStore)
	if !ok {
		return ErrNoLeadStore
	}

	if err := store.Replace(ctx, content); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}

	p.record(ctx, domain.EventCSVUploaded, map[string]any{"filename": filename})
	return nil
}

func (p *Pipeline) load(ctx context.Context) ([]domain.Lead, error) {
	if p.source == nil {
		return nil, nil
	}

	leads, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	return leads, nil
}

// scoreAll fans scoring out over a bounded worker group. Results are written
// by index so the output order always matches the input order.
func (p *Pipeline) scoreAll(ctx context.Context, leads []domain.Lead) ([]domain.ScoredLead, error) {
	scored := make([]domain.ScoredLead, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, lead := range leads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score := scoring.ScoreLead(lead)
			scored[i] = domain.ScoredLead{
				Lead:     lead,
				Score:    score,
				Priority: scoring.GetLeadPriority(score),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score leads: %w", err)
	}
	return scored, nil
}

func (p *Pipeline) record(ctx context.Context, event domain.EventType, data map[string]any) {
	p.logger.Debug("activity", "event", event, "data", data)
	if p.activity == nil {
		return
	}

	err := p.activity.Append(ctx, domain.ActivityEvent{
		ID:        uuid.NewString(),
		Timestamp: p.now().UTC(),
		Event:     event,
		Data:      data,
	})
	if err != nil {
		p.logger.Error("append activity failed", "event", event, "error", err)
	}
}

// BuildDigestMessage renders a run summary for operator channels.
func BuildDigestMessage(summary domain.ProcessSummary, policy scoring.Policy) string {
	var b strings.Builder
	b.WriteString("EasyFinder lead run\n")
	fmt.Fprintf(&b, "Total leads processed: %d\n", summary.TotalLeads)
	fmt.Fprintf(&b, "High-priority leads (score >= %d): %d\n", policy.NotifyThreshold, summary.HighPriorityCount)
	fmt.Fprintf(&b, "Emails sent: %d\n", summary.EmailsSent)
	return b.String()
}
