package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/treehouse-badges/internal/api"
	"github.com/vilaca/treehouse-badges/internal/domain"
	"github.com/vilaca/treehouse-badges/internal/report"
)

// mockClient is a test double for api.ProfileClient.
type mockClient struct {
	fetchProfileFunc func(ctx context.Context, username string) ([]byte, error)
}

func (m *mockClient) FetchProfile(ctx context.Context, username string) ([]byte, error) {
	if m.fetchProfileFunc != nil {
		return m.fetchProfileFunc(ctx, username)
	}
	return nil, nil
}

// mockRecorder records outcomes for assertions.
type mockRecorder struct {
	mu       sync.Mutex
	outcomes []string
	bytes    int
}

func (m *mockRecorder) ObserveReport(outcome string, duration time.Duration, bodyBytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	m.bytes += bodyBytes
}

// notifyingReporter signals once a given username has been reported.
type notifyingReporter struct {
	Reporter
	username string
	done     chan struct{}
}

func (r *notifyingReporter) Report(username string, body []byte, fetchErr error) (report.Outcome, error) {
	outcome, err := r.Reporter.Report(username, body, fetchErr)
	if username == r.username {
		close(r.done)
	}
	return outcome, err
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestReporter(out, errOut *bytes.Buffer) *report.Reporter {
	return report.NewReporter(report.ReporterConfig{
		Out:      out,
		ErrOut:   errOut,
		Decoder:  report.NewDecoder(domain.DefaultPointsCategory, domain.MissingPointsError),
		Renderer: report.NewTextRenderer(),
	})
}

func lines(buf *bytes.Buffer) []string {
	trimmed := strings.TrimSuffix(buf.String(), "\n")
	if trimmed == "" {
		return nil
	}
	result := strings.Split(trimmed, "\n")
	sort.Strings(result)
	return result
}

// TestReportAll_MixedOutcomes tests that N usernames produce exactly N lines.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestReportAll_MixedOutcomes(t *testing.T) {
	// Arrange
	client := &mockClient{
		fetchProfileFunc: func(ctx context.Context, username string) ([]byte, error) {
			switch username {
			case "chalkers":
				return []byte(`{"badges":[1,2,3],"points":{"JavaScript":2000000}}`), nil
			case "alanasmith":
				return []byte(`{"badges":[],"points":{"JavaScript":0}}`), nil
			case "ghost":
				return nil, api.NewStatusError(404)
			case "bad":
				return []byte(`"not json"`), nil
			default:
				return nil, &api.TransportError{Err: errors.New("dial tcp: connection refused")}
			}
		},
	}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	recorder := &mockRecorder{}
	service := NewProfileService(client, newTestReporter(out, errOut), recorder, newTestLogger())

	// Act
	err := service.ReportAll(context.Background(), []string{"chalkers", "ghost", "bad", "offline", "alanasmith"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"alanasmith has 0 total badge(s) and 0 points in JavaScript",
		"chalkers has 3 total badge(s) and 2000000 points in JavaScript",
	}, lines(out))

	errLines := lines(errOut)
	require.Len(t, errLines, 3)
	assert.Contains(t, errLines, "There was an error getting the profile for ghost (Not Found)")
	assert.Contains(t, errLines, "dial tcp: connection refused")

	recorded := append([]string(nil), recorder.outcomes...)
	sort.Strings(recorded)
	assert.Equal(t, []string{"parse_error", "status_error", "success", "success", "transport_error"}, recorded)
}

// TestReportAll_NoUsernames tests that an empty argument list prints nothing.
func TestReportAll_NoUsernames(t *testing.T) {
	// Arrange
	called := false
	client := &mockClient{
		fetchProfileFunc: func(ctx context.Context, username string) ([]byte, error) {
			called = true
			return nil, nil
		},
	}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	service := NewProfileService(client, newTestReporter(out, errOut), nil, newTestLogger())

	// Act
	err := service.ReportAll(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

// TestReportAll_FailureDoesNotDelayOthers tests that a hung, then failing,
// request for one username does not hold back another username's line.
func TestReportAll_FailureDoesNotDelayOthers(t *testing.T) {
	// Arrange
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	reporter := &notifyingReporter{
		Reporter: newTestReporter(out, errOut),
		username: "fast",
		done:     make(chan struct{}),
	}

	client := &mockClient{
		fetchProfileFunc: func(ctx context.Context, username string) ([]byte, error) {
			if username == "fast" {
				return []byte(`{"badges":[1],"points":{"JavaScript":10}}`), nil
			}
			select {
			case <-reporter.done:
			case <-time.After(5 * time.Second):
				t.Error("fast username was not reported while slow request was in flight")
			}
			return nil, &api.TransportError{Err: errors.New("connection reset by peer")}
		},
	}
	service := NewProfileService(client, reporter, nil, newTestLogger())

	// Act
	err := service.ReportAll(context.Background(), []string{"slow", "fast"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"fast has 1 total badge(s) and 10 points in JavaScript"}, lines(out))
	assert.Equal(t, []string{"connection reset by peer"}, lines(errOut))
}

// TestReportAll_RecoversPanic tests that a panicking unit is reported, not fatal.
func TestReportAll_RecoversPanic(t *testing.T) {
	// Arrange
	client := &mockClient{
		fetchProfileFunc: func(ctx context.Context, username string) ([]byte, error) {
			if username == "boom" {
				panic("unexpected profile state")
			}
			return []byte(`{"badges":[],"points":{"JavaScript":1}}`), nil
		},
	}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	recorder := &mockRecorder{}
	service := NewProfileService(client, newTestReporter(out, errOut), recorder, newTestLogger())

	// Act
	err := service.ReportAll(context.Background(), []string{"boom", "fine"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"fine has 0 total badge(s) and 1 points in JavaScript"}, lines(out))
	assert.Equal(t, []string{"unexpected profile state"}, lines(errOut))
	assert.Len(t, recorder.outcomes, 2)
}

// panickingRecorder panics after the line has been written.
type panickingRecorder struct{}

func (panickingRecorder) ObserveReport(outcome string, duration time.Duration, bodyBytes int) {
	panic("recorder unavailable")
}

// TestReportAll_PanicAfterWriteKeepsOneLine tests that a panic after the line
// was printed does not print a second line for the same username.
func TestReportAll_PanicAfterWriteKeepsOneLine(t *testing.T) {
	// Arrange
	client := &mockClient{
		fetchProfileFunc: func(ctx context.Context, username string) ([]byte, error) {
			if username == "ghost" {
				return nil, api.NewStatusError(404)
			}
			return []byte(`{"badges":[1,2],"points":{"JavaScript":7}}`), nil
		},
	}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	service := NewProfileService(client, newTestReporter(out, errOut), panickingRecorder{}, newTestLogger())

	// Act
	err := service.ReportAll(context.Background(), []string{"chalkers", "ghost"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"chalkers has 2 total badge(s) and 7 points in JavaScript"}, lines(out))
	assert.Equal(t, []string{"There was an error getting the profile for ghost (Not Found)"}, lines(errOut))
}

// failingReporter fails every write.
type failingReporter struct{}

func (failingReporter) Report(username string, body []byte, fetchErr error) (report.Outcome, error) {
	return report.OutcomeSuccess, errors.New("failed to write report line: broken pipe")
}

// TestReportAll_WriteFailure tests that write failures are returned after all units finish.
func TestReportAll_WriteFailure(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	fetched := 0
	client := &mockClient{
		fetchProfileFunc: func(ctx context.Context, username string) ([]byte, error) {
			mu.Lock()
			fetched++
			mu.Unlock()
			return nil, nil
		},
	}
	service := NewProfileService(client, failingReporter{}, nil, newTestLogger())

	// Act
	err := service.ReportAll(context.Background(), []string{"a", "b", "c"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Equal(t, 3, fetched)
}
