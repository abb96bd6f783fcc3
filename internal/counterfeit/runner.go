// Package counterfeit is the product-intake inference gateway: it runs
// the external counterfeit-detection process once per request, feeds it
// the product metadata as JSON on stdin, and reads the verdict back
// from stdout.
//
// A fresh process is spawned for every request. The model's
// statefulness across inputs is unspecified, so reuse is not assumed;
// the spawn cost is accepted and documented here rather than hidden
// behind pooling.
//
// Unlike the review path, nothing on this path fails closed: malformed
// or missing model output is a hard error surfaced to the caller,
// because a wrong counterfeit label is costlier than a rejected
// submission. Stderr is diagnostic only and is always logged, on
// success and on failure.
package counterfeit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/veritrust/classifier/internal/config"
	"github.com/veritrust/classifier/internal/domain"
	"github.com/veritrust/classifier/internal/logging"
)

var (
	// ErrProcess indicates the model process could not be run to completion.
	ErrProcess = errors.New("counterfeit model process failed")
	// ErrModelOutput indicates the process exited but its output was unusable.
	ErrModelOutput = errors.New("counterfeit model output unreadable")
)

// Runner spawns the counterfeit model process per intake request.
type Runner struct {
	cfg    config.CounterfeitConfig
	logger logging.Logger
}

// NewRunner creates a subprocess runner.
func NewRunner(cfg config.CounterfeitConfig, logger logging.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// modelInput is the JSON contract written to the process stdin.
type modelInput struct {
	Title       string `json:"title"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// modelOutput is the JSON contract read from the process stdout. The
// script reports its own failures as {"error": ...} on stdout.
type modelOutput struct {
	Prediction  *int     `json:"prediction"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
	Error       string   `json:"error"`
}

// Detect runs the model for one intake request.
func (r *Runner) Detect(ctx context.Context, req *domain.ProductIntakeRequest) (*domain.CounterfeitVerdict, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(modelInput{
		Title:       req.Title,
		Brand:       req.Brand,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal model input: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.cfg.Command, r.cfg.Args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// Diagnostic channel is advisory: expose it regardless of outcome.
	if stderr.Len() > 0 {
		r.logger.Warn("counterfeit model diagnostics",
			logging.String("title", req.Title),
			logging.String("stderr", stderr.String()),
		)
	}

	if runErr != nil {
		return nil, fmt.Errorf("%w: %w (stderr: %s)", ErrProcess, runErr, stderr.String())
	}

	return parseOutput(stdout.Bytes(), stderr.String())
}

func parseOutput(raw []byte, stderr string) (*domain.CounterfeitVerdict, error) {
	var out modelOutput
	if err := json.Unmarshal(bytes.TrimSpace(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v (stderr: %s)", ErrModelOutput, err, stderr)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: model reported: %s", ErrModelOutput, out.Error)
	}
	if out.Prediction == nil || (*out.Prediction != 0 && *out.Prediction != 1) {
		return nil, fmt.Errorf("%w: prediction missing or not 0/1", ErrModelOutput)
	}
	if out.Confidence == nil || *out.Confidence < 0 || *out.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence missing or out of [0,1]", ErrModelOutput)
	}

	return &domain.CounterfeitVerdict{
		IsCounterfeit: *out.Prediction == 1,
		Confidence:    *out.Confidence,
		Explanation:   out.Explanation,
	}, nil
}
