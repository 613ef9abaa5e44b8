// Package admiralty is a builtin provider for the UK Hydrographic Office
// Admiralty tidal API. It needs a subscription key in ADMIRALTY_API_KEY,
// which may be placed in ~/.tide/.env.
package admiralty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

const (
	Name          = "admiralty"
	APIKeyEnvVar  = "ADMIRALTY_API_KEY"
	DefaultAPIURL = "https://admiraltyapi.azure-api.net/uktidalapi/api/V1"

	keyHeader       = "Ocp-Apim-Subscription-Key"
	fallbackTimeout = 20 * time.Second
)

// ErrNoAPIKey is returned when no subscription key is configured.
var ErrNoAPIKey = errors.New(APIKeyEnvVar + " is not set")

var (
	defaultOnce     sync.Once
	defaultProvider *Provider
	defaultErr      error
)

func init() {
	_ = plugin.Register(plugin.ProviderInfo{
		Name:        Name,
		Description: "UK Admiralty tidal events",
		Priority:    plugin.PriorityDefault,
		Factory: func() (tidesdk.GetTideDataFunc, error) {
			p, err := Default()
			if err != nil {
				return nil, err
			}
			return p.GetTideData, nil
		},
	})
}

// Options configures a Provider.
type Options struct {
	APIURL     string
	HTTPClient *http.Client
	Now        func() time.Time
	// APIKey overrides the environment lookup.
	APIKey func() string
}

// Provider fetches tidal events for one Admiralty station per call.
type Provider struct {
	apiURL     string
	httpClient *http.Client
	now        func() time.Time
	apiKey     func() string
	london     *time.Location
	names      *lru.Cache[string, string]
}

// New creates a provider.
func New(opts Options) (*Provider, error) {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.APIKey == nil {
		opts.APIKey = func() string { return os.Getenv(APIKeyEnvVar) }
	}

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		return nil, fmt.Errorf("loading Europe/London: %w", err)
	}
	names, err := lru.New[string, string](32)
	if err != nil {
		return nil, fmt.Errorf("creating station name cache: %w", err)
	}

	return &Provider{
		apiURL:     strings.TrimRight(opts.APIURL, "/"),
		httpClient: opts.HTTPClient,
		now:        opts.Now,
		apiKey:     opts.APIKey,
		london:     london,
		names:      names,
	}, nil
}

type tidalEvent struct {
	EventType string  `json:"EventType"`
	DateTime  string  `json:"DateTime"`
	Height    float64 `json:"Height"`
}

type station struct {
	Properties struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"properties"`
}

type stationCollection struct {
	Features []station `json:"features"`
}

// Station is a tidal station that can be used as the seaport id.
type Station struct {
	ID   string
	Name string
}

// Label renders the station the way pickers show it: "Name (Id)".
func (s Station) Label() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.ID)
}

// Stations lists every station, sorted by name. Names are cached for later
// tide lookups.
func (p *Provider) Stations(ctx context.Context) ([]Station, error) {
	key := p.apiKey()
	if key == "" {
		return nil, ErrNoAPIKey
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fallbackTimeout)
		defer cancel()
	}

	body, err := p.get(ctx, key, p.apiURL+"/Stations")
	if err != nil {
		return nil, fmt.Errorf("fetching stations: %w", err)
	}
	var coll stationCollection
	if err := json.Unmarshal(body, &coll); err != nil {
		return nil, fmt.Errorf("decoding stations: %w", err)
	}

	stations := make([]Station, 0, len(coll.Features))
	for _, f := range coll.Features {
		if f.Properties.ID == "" {
			continue
		}
		stations = append(stations, Station{ID: f.Properties.ID, Name: f.Properties.Name})
		if f.Properties.Name != "" {
			p.names.Add(f.Properties.ID, f.Properties.Name)
		}
	}
	sort.SliceStable(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })
	return stations, nil
}

// Default returns the shared provider used by the builtin registration.
func Default() (*Provider, error) {
	defaultOnce.Do(func() {
		defaultProvider, defaultErr = New(Options{})
	})
	return defaultProvider, defaultErr
}

// GetTideData returns events dated from today (UK time) for req.DurationDays
// days, in chronological order.
func (p *Provider) GetTideData(req tidesdk.Request) ([]tidesdk.Reading, error) {
	key := p.apiKey()
	if key == "" {
		return nil, ErrNoAPIKey
	}
	if req.SeaportID == "" {
		return nil, errors.New("Admiralty station id (seaport) is not set")
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

	location := p.stationName(ctx, key, req)

	eventsURL := fmt.Sprintf("%s/Stations/%s/TidalEvents?duration=%d", p.apiURL, url.PathEscape(req.SeaportID), days)
	body, err := p.get(ctx, key, eventsURL)
	if err != nil {
		return nil, fmt.Errorf("fetching tidal events: %w", err)
	}
	var events []tidalEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decoding tidal events: %w", err)
	}

	now := p.now().In(p.london)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.london)
	end := start.AddDate(0, 0, days)

	type dated struct {
		at time.Time
		ev tidalEvent
	}
	var kept []dated
	for _, ev := range events {
		raw, _, _ := strings.Cut(ev.DateTime, ".")
		at, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing event time %s: %w", ev.DateTime, err)
		}
		at = at.In(p.london)
		if at.Before(start) || !at.Before(end) {
			continue
		}
		kept = append(kept, dated{at: at, ev: ev})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].at.Before(kept[j].at) })

	readings := make([]tidesdk.Reading, 0, len(kept))
	for _, d := range kept {
		readings = append(readings, tidesdk.Reading{
			Date:     tidesdk.FormatDate(d.at),
			Time:     tidesdk.FormatTime(d.at),
			Location: location,
			IsHigh:   d.ev.EventType == "HighWater",
			Level:    fmt.Sprintf("%.2fm", d.ev.Height),
			URL:      eventsURL,
		})
	}
	return readings, nil
}

func (p *Provider) stationName(ctx context.Context, key string, req tidesdk.Request) string {
	if name, ok := p.names.Get(req.SeaportID); ok {
		return name
	}
	body, err := p.get(ctx, key, p.apiURL+"/Stations/"+url.PathEscape(req.SeaportID))
	if err != nil {
		if req.Logger != nil {
			req.Logger.Errorf("station lookup for %s failed: %v", req.SeaportID, err)
		}
		return "Unknown"
	}
	var st station
	if err := json.Unmarshal(body, &st); err != nil || st.Properties.Name == "" {
		return "Unknown"
	}
	p.names.Add(req.SeaportID, st.Properties.Name)
	return st.Properties.Name
}

func (p *Provider) get(ctx context.Context, key, u string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set(keyHeader, key)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("admiralty API returned %s", resp.Status)
	}
	return body, nil
}
