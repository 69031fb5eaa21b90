package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/leaguehq/draftsim/internal/models"
)

// ADPSource supplies one ranked player list. The engine treats sources as
// read-only inputs; how rows are transported is a provider concern.
type ADPSource interface {
	Name() string
	FetchADP(ctx context.Context) ([]models.RawADPEntry, error)
}

// HTTPADPClient fetches ADP rankings from a JSON endpoint, rate limited
// and wrapped in a circuit breaker so a flaky source degrades to cached
// pools instead of failing drafts.
type HTTPADPClient struct {
	name       string
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewHTTPADPClient creates a client for one ADP source. requestsPerMin
// bounds outbound request rate.
func NewHTTPADPClient(name, url string, requestsPerMin int, logger *logrus.Logger) *HTTPADPClient {
	if requestsPerMin <= 0 {
		requestsPerMin = 10
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("adp-%s", name),
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("ADP source circuit breaker state change")
		},
	})
	return &HTTPADPClient{
		name: name,
		url:  url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMin)), 1),
		breaker: breaker,
		logger:  logger,
	}
}

// Name returns the source name.
func (c *HTTPADPClient) Name() string { return c.name }

// adpRow tolerates the loose typing of ADP feeds: the ADP value may
// arrive as a number or a string.
type adpRow struct {
	PlayerName string      `json:"player_name"`
	Name       string      `json:"name"`
	Position   string      `json:"position"`
	Team       string      `json:"team"`
	ADP        json.Number `json:"adp"`
}

// FetchADP retrieves and parses the source's ranked list. Malformed rows
// are dropped, not fatal.
func (c *HTTPADPClient) FetchADP(ctx context.Context) ([]models.RawADPEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request to %s failed: %w", c.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("source %s returned status %d", c.name, resp.StatusCode)
		}

		var rows []adpRow
		decoder := json.NewDecoder(resp.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", c.name, err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	rows := result.([]adpRow)
	entries := make([]models.RawADPEntry, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		entry, ok := parseRow(row)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}

	c.logger.WithFields(logrus.Fields{
		"source":  c.name,
		"entries": len(entries),
		"dropped": dropped,
	}).Info("Fetched ADP rankings")
	return entries, nil
}

func parseRow(row adpRow) (models.RawADPEntry, bool) {
	name := row.PlayerName
	if name == "" {
		name = row.Name
	}
	if name == "" || row.Position == "" {
		return models.RawADPEntry{}, false
	}
	adp, err := row.ADP.Float64()
	if err != nil || adp <= 0 {
		return models.RawADPEntry{}, false
	}
	return models.RawADPEntry{
		PlayerName: name,
		Position:   models.Position(strings.ToUpper(strings.TrimSpace(row.Position))),
		NFLTeam:    strings.ToUpper(strings.TrimSpace(row.Team)),
		ADP:        adp,
	}, true
}

// FileADPSource reads a ranked list from a local JSON file, used by the
// mock draft CLI and by tests.
type FileADPSource struct {
	name string
	path string
}

// NewFileADPSource creates a file-backed source.
func NewFileADPSource(name, path string) *FileADPSource {
	return &FileADPSource{name: name, path: path}
}

// Name returns the source name.
func (s *FileADPSource) Name() string { return s.name }

// FetchADP parses the file. Malformed rows are dropped.
func (s *FileADPSource) FetchADP(_ context.Context) ([]models.RawADPEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ADP file %s: %w", s.path, err)
	}
	var rows []adpRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse ADP file %s: %w", s.path, err)
	}
	entries := make([]models.RawADPEntry, 0, len(rows))
	for _, row := range rows {
		if entry, ok := parseRow(row); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
