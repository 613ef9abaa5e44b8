// Package noaa is a builtin provider backed by NOAA CO-OPS high/low tide
// predictions. Select it with the provider path "builtin:noaa" and a NOAA
// station id (for example 8454000) as the seaport.
package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

// Name is the builtin provider name.
const Name = "noaa"

const (
	DefaultAPIURL      = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	DefaultMetadataURL = "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi/stations"
	PredictionsPageURL = "https://tidesandcurrents.noaa.gov/noaatidepredictions.html"

	noaaTimeLayout  = "2006-01-02 15:04"
	noaaDateLayout  = "20060102"
	nameCacheSize   = 64
	fallbackTimeout = 20 * time.Second
)

var (
	defaultOnce     sync.Once
	defaultProvider *Provider
	defaultErr      error
)

func init() {
	_ = plugin.Register(plugin.ProviderInfo{
		Name:        Name,
		Description: "NOAA CO-OPS high/low tide predictions",
		Priority:    plugin.PriorityDefault,
		Factory: func() (tidesdk.GetTideDataFunc, error) {
			defaultOnce.Do(func() {
				defaultProvider, defaultErr = New(Options{})
			})
			if defaultErr != nil {
				return nil, defaultErr
			}
			return defaultProvider.GetTideData, nil
		},
	})
}

// Options configures a Provider. Zero values select the public NOAA endpoints.
type Options struct {
	APIURL      string
	MetadataURL string
	HTTPClient  *http.Client
	Now         func() time.Time
}

// Provider fetches predictions for one station per call.
type Provider struct {
	apiURL      string
	metadataURL string
	httpClient  *http.Client
	now         func() time.Time
	names       *lru.Cache[string, string]
}

// New creates a provider.
func New(opts Options) (*Provider, error) {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.MetadataURL == "" {
		opts.MetadataURL = DefaultMetadataURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	names, err := lru.New[string, string](nameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating station name cache: %w", err)
	}

	return &Provider{
		apiURL:      opts.APIURL,
		metadataURL: opts.MetadataURL,
		httpClient:  opts.HTTPClient,
		now:         opts.Now,
		names:       names,
	}, nil
}

type prediction struct {
	Time  string `json:"t"`
	Value string `json:"v"`
	Type  string `json:"type"`
}

type predictionsResponse struct {
	Predictions []prediction `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type stationsResponse struct {
	Stations []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		State string `json:"state"`
	} `json:"stations"`
}

// GetTideData returns the high and low waters from today for
// req.DurationDays days, in chronological order.
func (p *Provider) GetTideData(req tidesdk.Request) ([]tidesdk.Reading, error) {
	if req.SeaportID == "" {
		return nil, errors.New("NOAA station id (seaport) is not set")
	}
	days := req.DurationDays
	if days < 1 {
		days = 1
	}
	timeout := req.Timeout()
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	today := p.now()
	begin := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := begin.AddDate(0, 0, days)

	location := p.stationName(ctx, req)

	preds, err := p.fetchPredictions(ctx, req.SeaportID, begin, end.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	logf(req.Logger, "NOAA returned %d predictions for station %s", len(preds), req.SeaportID)

	type event struct {
		at   time.Time
		high bool
		v    float64
	}
	events := make([]event, 0, len(preds))
	for _, pr := range preds {
		// Station-local wall time; the zone is irrelevant for formatting.
		at, err := time.ParseInLocation(noaaTimeLayout, pr.Time, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing time %s: %w", pr.Time, err)
		}
		if at.Before(begin) || !at.Before(end) {
			continue
		}
		v, err := strconv.ParseFloat(pr.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing height %s: %w", pr.Value, err)
		}
		events = append(events, event{at: at, high: pr.Type == "H", v: v})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at.Before(events[j].at) })

	pageURL := p.pageURL(req.SeaportID, begin, end.AddDate(0, 0, -1))
	readings := make([]tidesdk.Reading, 0, len(events))
	for _, e := range events {
		readings = append(readings, tidesdk.Reading{
			Date:     tidesdk.FormatDate(e.at),
			Time:     tidesdk.FormatTime(e.at),
			Location: location,
			IsHigh:   e.high,
			Level:    fmt.Sprintf("%.2fm", e.v),
			URL:      pageURL,
		})
	}
	return readings, nil
}

func (p *Provider) fetchPredictions(ctx context.Context, station string, begin, end time.Time) ([]prediction, error) {
	q := url.Values{}
	q.Set("station", station)
	q.Set("begin_date", begin.Format(noaaDateLayout))
	q.Set("end_date", end.Format(noaaDateLayout))
	q.Set("product", "predictions")
	q.Set("datum", "MLLW")
	q.Set("units", "metric")
	q.Set("time_zone", "lst_ldt")
	q.Set("interval", "hilo")
	q.Set("format", "json")
	q.Set("application", "indicator-tide")

	body, err := p.get(ctx, p.apiURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp predictionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Message: "decoding predictions", Err: err}
	}
	if resp.Error != nil && resp.Error.Message != "" {
		return nil, &APIError{Message: resp.Error.Message}
	}
	return resp.Predictions, nil
}

// stationName resolves the display name of a station. Failures fall back to
// the bare id so that predictions are still shown.
func (p *Provider) stationName(ctx context.Context, req tidesdk.Request) string {
	if name, ok := p.names.Get(req.SeaportID); ok {
		return name
	}

	fallback := "NOAA " + req.SeaportID
	body, err := p.get(ctx, p.metadataURL+"/"+url.PathEscape(req.SeaportID)+".json")
	if err != nil {
		logf(req.Logger, "station lookup for %s failed: %v", req.SeaportID, err)
		return fallback
	}

	var resp stationsResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Stations) == 0 || resp.Stations[0].Name == "" {
		logf(req.Logger, "station %s has no usable metadata", req.SeaportID)
		return fallback
	}

	name := resp.Stations[0].Name
	if resp.Stations[0].State != "" {
		name += ", " + resp.Stations[0].State
	}
	p.names.Add(req.SeaportID, name)
	return name
}

func (p *Provider) get(ctx context.Context, u string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "reading response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return body, nil
}

func (p *Provider) pageURL(station string, begin, end time.Time) string {
	q := url.Values{}
	q.Set("id", station)
	q.Set("bdate", begin.Format(noaaDateLayout))
	q.Set("edate", end.Format(noaaDateLayout))
	return PredictionsPageURL + "?" + q.Encode()
}

func logf(l tidesdk.Logger, format string, args ...interface{}) {
	if l != nil {
		l.Debugf(format, args...)
	}
}
