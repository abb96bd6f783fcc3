package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veritrust/classifier/internal/domain"
	"github.com/veritrust/classifier/internal/logging"
	"github.com/veritrust/classifier/internal/telemetry"
)

// CounterfeitDetector is the external inference boundary for product
// intake. There is no rule stage on this path: the verdict comes from
// the model or the request fails.
type CounterfeitDetector interface {
	Detect(ctx context.Context, req *domain.ProductIntakeRequest) (*domain.CounterfeitVerdict, error)
}

// IntakeClassifier screens product submissions through the counterfeit
// detector. Every failure on this path is hard: a wrong counterfeit
// label has real commercial consequences, so nothing here defaults.
type IntakeClassifier struct {
	detector  CounterfeitDetector
	logger    logging.Logger
	telemetry *telemetry.Provider
}

// NewIntakeClassifier creates an intake classifier.
func NewIntakeClassifier(detector CounterfeitDetector, logger logging.Logger, tp *telemetry.Provider) *IntakeClassifier {
	return &IntakeClassifier{
		detector:  detector,
		logger:    logger,
		telemetry: tp,
	}
}

// Classify runs the counterfeit model for one intake request.
func (c *IntakeClassifier) Classify(ctx context.Context, req *domain.ProductIntakeRequest) (*domain.CounterfeitVerdict, error) {
	start := time.Now()

	verdict, err := c.detector.Detect(ctx, req)
	if err != nil {
		c.logger.Error("counterfeit detection failed",
			logging.String("title", truncateWords(req.Title, commentExcerptWordLimit)),
			logging.String("brand", req.Brand),
			logging.Error(err),
		)
		if c.telemetry != nil {
			c.telemetry.Metrics.IntakeRequests.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("counterfeit detection: %w", err)
	}
	if verdict == nil {
		return nil, fmt.Errorf("counterfeit detection: detector returned no verdict")
	}
	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return nil, fmt.Errorf("counterfeit detection: confidence %v out of range", verdict.Confidence)
	}

	if c.telemetry != nil {
		c.telemetry.Metrics.IntakeRequests.WithLabelValues(intakeOutcome(verdict)).Inc()
	}
	c.logger.Info("product intake classified",
		logging.String("title", truncateWords(req.Title, commentExcerptWordLimit)),
		logging.String("brand", req.Brand),
		logging.Bool("is_counterfeit", verdict.IsCounterfeit),
		logging.Float64("confidence", verdict.Confidence),
		logging.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return verdict, nil
}

func intakeOutcome(v *domain.CounterfeitVerdict) string {
	if v.IsCounterfeit {
		return "counterfeit"
	}
	return "genuine"
}

// truncateWords returns the first n words of s, appending "..." when
// truncated. Keeps review bodies out of the logs.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}
