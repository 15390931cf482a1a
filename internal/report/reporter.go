package report

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vilaca/treehouse-badges/internal/api"
)

// Outcome classifies how a single report ended.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeStatusError    Outcome = "status_error"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeParseError     Outcome = "parse_error"
)

// Reporter turns fetch results into exactly one output line each.
// Success lines go to out, every error line goes to errOut.
// It is safe for concurrent use; lines are never interleaved.
type Reporter struct {
	out      io.Writer
	errOut   io.Writer
	decoder  *Decoder
	renderer Renderer
	mu       sync.Mutex
}

// ReporterConfig holds configuration for creating a new Reporter.
type ReporterConfig struct {
	Out      io.Writer
	ErrOut   io.Writer
	Decoder  *Decoder
	Renderer Renderer
}

// NewReporter creates a new Reporter with injected dependencies.
func NewReporter(cfg ReporterConfig) *Reporter {
	return &Reporter{
		out:      cfg.Out,
		errOut:   cfg.ErrOut,
		decoder:  cfg.Decoder,
		renderer: cfg.Renderer,
	}
}

// Report prints the line for one username. fetchErr is the error returned by
// api.ProfileClient.FetchProfile, body its document when fetchErr is nil.
// The returned error is only ever a write failure.
func (r *Reporter) Report(username string, body []byte, fetchErr error) (Outcome, error) {
	var statusErr *api.StatusError

	switch {
	case errors.As(fetchErr, &statusErr):
		return OutcomeStatusError, r.writeLine(r.errOut, r.renderer.RenderStatusError(username, statusErr.Reason))
	case fetchErr != nil:
		return OutcomeTransportError, r.writeLine(r.errOut, fetchErr.Error())
	}

	profile, err := r.decoder.Decode(username, body)
	if err != nil {
		return OutcomeParseError, r.writeLine(r.errOut, err.Error())
	}

	return OutcomeSuccess, r.writeLine(r.out, r.renderer.RenderProfile(profile))
}

func (r *Reporter) writeLine(w io.Writer, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write report line: %w", err)
	}
	return nil
}
