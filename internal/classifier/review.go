// Package classifier implements the staged fake-review and counterfeit
// classification pipeline: a length gate, an ordered deterministic rule
// engine, and an external inference fallback. Each request runs the
// machine exactly once; the only shared state is the read-only lexical
// tables, so concurrent use needs no synchronization.
package classifier

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/veritrust/classifier/internal/domain"
	"github.com/veritrust/classifier/internal/logging"
	"github.com/veritrust/classifier/internal/telemetry"
)

// ReviewVerdictProvider is the external inference boundary for review
// classification. Implementations must return a verdict or an error,
// never both nil.
type ReviewVerdictProvider interface {
	ClassifyReview(ctx context.Context, comment string) (*domain.ReviewVerdict, error)
}

// ReviewClassifier sequences the review pipeline:
// Gated -> RuleChecked -> Inferred -> Done. The first stage to produce
// a verdict is authoritative and later stages never run.
type ReviewClassifier struct {
	provider  ReviewVerdictProvider
	logger    logging.Logger
	telemetry *telemetry.Provider
}

// NewReviewClassifier creates a review classifier. telemetry may be
// nil (tests); provider must not be.
func NewReviewClassifier(provider ReviewVerdictProvider, logger logging.Logger, tp *telemetry.Provider) *ReviewClassifier {
	return &ReviewClassifier{
		provider:  provider,
		logger:    logger,
		telemetry: tp,
	}
}

// Classify produces exactly one verdict for the submission. An error is
// returned only when the inference stage is reached and its transport
// fails; the caller must surface that failure rather than substitute a
// verdict.
func (c *ReviewClassifier) Classify(ctx context.Context, sub *domain.ReviewSubmission) (*domain.ReviewVerdict, error) {
	start := time.Now()

	var span trace.Span
	if c.telemetry != nil {
		ctx, span = c.telemetry.Tracer.Start(ctx, "classify_review")
		defer span.End()
	}

	// Gated: trivially short comments default to Real.
	if verdict := gateShortReview(sub.Comment); verdict != nil {
		c.finish(span, sub, verdict, "", start)
		return verdict, nil
	}

	// RuleChecked: first matching deterministic rule is authoritative.
	if rule := evaluateRules(sub.Comment); rule != nil {
		verdict := &domain.ReviewVerdict{
			Classification: domain.ClassificationFake,
			Explanation:    rule.explanation,
			Stage:          domain.StageRuleMatched,
		}
		c.finish(span, sub, verdict, rule.name, start)
		return verdict, nil
	}

	// Inferred: the rules were inconclusive, ask the model.
	verdict, err := c.provider.ClassifyReview(ctx, sub.Comment)
	if err != nil {
		c.logger.Error("review inference failed",
			logging.String("reviewer", sub.Reviewer),
			logging.String("comment_excerpt", truncateWords(sub.Comment, commentExcerptWordLimit)),
			logging.Error(err),
		)
		if c.telemetry != nil {
			c.telemetry.Metrics.InferenceFailures.Inc()
		}
		return nil, fmt.Errorf("review inference: %w", err)
	}
	if verdict == nil {
		return nil, fmt.Errorf("review inference: provider returned no verdict")
	}
	verdict.Stage = domain.StageInferred

	c.finish(span, sub, verdict, "", start)
	return verdict, nil
}

const commentExcerptWordLimit = 10

func (c *ReviewClassifier) finish(span trace.Span, sub *domain.ReviewSubmission, verdict *domain.ReviewVerdict, rule string, start time.Time) {
	elapsed := time.Since(start)

	if c.telemetry != nil {
		c.telemetry.Metrics.ReviewsClassified.
			WithLabelValues(verdict.Stage, string(verdict.Classification)).Inc()
		c.telemetry.Metrics.ClassificationDuration.Observe(elapsed.Seconds())
		if rule != "" {
			c.telemetry.Metrics.RuleMatches.WithLabelValues(rule).Inc()
		}
	}
	if span != nil {
		span.SetAttributes(
			attribute.String("verdict.stage", verdict.Stage),
			attribute.String("verdict.classification", string(verdict.Classification)),
		)
	}

	fields := []logging.Field{
		logging.String("reviewer", sub.Reviewer),
		logging.Int("rating", sub.Rating),
		logging.String("comment_excerpt", truncateWords(sub.Comment, commentExcerptWordLimit)),
		logging.String("classification", string(verdict.Classification)),
		logging.String("stage", verdict.Stage),
		logging.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rule != "" {
		fields = append(fields, logging.String("rule", rule))
	}
	c.logger.Info("review classified", fields...)
}
