package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vilaca/treehouse-badges/internal/api"
	"github.com/vilaca/treehouse-badges/internal/domain"
	"github.com/vilaca/treehouse-badges/internal/report"
)

// Reporter prints the line for one fetch result.
type Reporter interface {
	Report(username string, body []byte, fetchErr error) (report.Outcome, error)
}

// Recorder records the result of one report.
type Recorder interface {
	ObserveReport(outcome string, duration time.Duration, bodyBytes int)
}

// ProfileService fetches and reports profiles, one independent unit of
// work per username.
type ProfileService struct {
	client   api.ProfileClient
	reporter Reporter
	recorder Recorder
	logger   logrus.FieldLogger
}

// NewProfileService creates a new profile service.
func NewProfileService(client api.ProfileClient, reporter Reporter, recorder Recorder, logger logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		client:   client,
		reporter: reporter,
		recorder: recorder,
		logger:   logger,
	}
}

// ReportAll dispatches every username at once and waits for all of them.
// Output order across usernames is whatever order the requests finish in.
// Per-username failures are printed, never returned; the returned error is
// the first failure to write a line.
func (s *ProfileService) ReportAll(ctx context.Context, usernames []string) error {
	if len(usernames) == 0 {
		s.logger.Debug("No usernames given, nothing to report")
		return nil
	}

	var g errgroup.Group
	for _, username := range usernames {
		req := domain.NewProfileRequest(username)
		g.Go(func() error {
			return s.reportOne(ctx, req)
		})
	}

	return g.Wait()
}

// reportOne fetches and reports a single profile.
func (s *ProfileService) reportOne(ctx context.Context, req domain.ProfileRequest) (err error) {
	logger := s.logger.WithFields(logrus.Fields{
		"username":   req.Username,
		"request_id": req.ID,
	})
	start := time.Now()
	written := false

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Recovered from panic while reporting: %v", r)
			// Exactly one line per username, even if the panic came after it.
			if written {
				return
			}
			_, err = s.report(logger, req, start, nil, &api.TransportError{Err: fmt.Errorf("%v", r)}, &written)
		}
	}()

	logger.Debug("Fetching profile")
	body, fetchErr := s.client.FetchProfile(ctx, req.Username)

	_, err = s.report(logger, req, start, body, fetchErr, &written)
	return err
}

// report prints the line for req and sets *written once the reporter returns.
func (s *ProfileService) report(logger logrus.FieldLogger, req domain.ProfileRequest, start time.Time, body []byte, fetchErr error, written *bool) (report.Outcome, error) {
	outcome, err := s.reporter.Report(req.Username, body, fetchErr)
	*written = true
	duration := time.Since(start)

	if s.recorder != nil {
		s.recorder.ObserveReport(string(outcome), duration, len(body))
	}

	entry := logger.WithFields(logrus.Fields{
		"outcome":  outcome,
		"duration": duration.Round(time.Millisecond),
	})
	if err != nil {
		entry.WithError(err).Error("Failed to write report")
		return outcome, err
	}
	entry.Debug("Profile reported")

	return outcome, nil
}
