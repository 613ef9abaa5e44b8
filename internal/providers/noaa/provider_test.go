package noaa

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

const predictionsJSON = `{"predictions":[
 {"t":"2025-08-05 04:50","v":"1.512","type":"H"},
 {"t":"2025-08-03 22:00","v":"0.100","type":"L"},
 {"t":"2025-08-04 04:07","v":"1.400","type":"H"},
 {"t":"2025-08-04 10:31","v":"-0.053","type":"L"},
 {"t":"2025-08-06 05:30","v":"1.600","type":"H"}
]}`

type fakeNOAA struct {
	server        *httptest.Server
	metadataCalls atomic.Int32
	lastQuery     atomic.Value
	predictions   string
	status        int
}

func newFakeNOAA(t *testing.T) *fakeNOAA {
	t.Helper()
	f := &fakeNOAA{predictions: predictionsJSON, status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/datagetter", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery.Store(r.URL.Query())
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.predictions))
	})
	mux.HandleFunc("/stations/", func(w http.ResponseWriter, r *http.Request) {
		f.metadataCalls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/8454000.json") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"stations":[{"id":"8454000","name":"Providence","state":"RI"}]}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeNOAA) provider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Options{
		APIURL:      f.server.URL + "/datagetter",
		MetadataURL: f.server.URL + "/stations",
		HTTPClient:  f.server.Client(),
		Now:         func() time.Time { return time.Date(2025, 8, 4, 9, 0, 0, 0, time.Local) },
	})
	require.NoError(t, err)
	return p
}

func request(station string, days int) tidesdk.Request {
	return tidesdk.Request{URLTimeoutInSeconds: 5, DurationDays: days, SeaportID: station}
}

func TestGetTideData(t *testing.T) {
	f := newFakeNOAA(t)
	p := f.provider(t)

	readings, err := p.GetTideData(request("8454000", 2))
	require.NoError(t, err)

	require.Len(t, readings, 3, "events before today and after the window are dropped")
	assert.Equal(t, tidesdk.Reading{
		Date:     "Monday August 04",
		Time:     "04:07 AM",
		Location: "Providence, RI",
		IsHigh:   true,
		Level:    "1.40m",
		URL:      PredictionsPageURL + "?bdate=20250804&edate=20250805&id=8454000",
	}, readings[0])
	assert.Equal(t, "10:31 AM", readings[1].Time)
	assert.Equal(t, "-0.05m", readings[1].Level)
	assert.False(t, readings[1].IsHigh)
	assert.Equal(t, "Tuesday August 05", readings[2].Date)

	q := f.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"20250804"}, q["begin_date"])
	assert.Equal(t, []string{"20250805"}, q["end_date"])
	assert.Equal(t, []string{"hilo"}, q["interval"])
}

func TestGetTideData_CachesStationName(t *testing.T) {
	f := newFakeNOAA(t)
	p := f.provider(t)

	for i := 0; i < 3; i++ {
		_, err := p.GetTideData(request("8454000", 1))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.metadataCalls.Load())
}

func TestGetTideData_UnknownStationNameFallsBack(t *testing.T) {
	f := newFakeNOAA(t)
	readings, err := f.provider(t).GetTideData(request("9999999", 1))
	require.NoError(t, err)
	require.NotEmpty(t, readings)
	assert.Equal(t, "NOAA 9999999", readings[0].Location)
}

func TestGetTideData_Errors(t *testing.T) {
	t.Run("missing station", func(t *testing.T) {
		_, err := newFakeNOAA(t).provider(t).GetTideData(request("", 1))
		assert.ErrorContains(t, err, "station id")
	})

	t.Run("error payload", func(t *testing.T) {
		f := newFakeNOAA(t)
		f.predictions = `{"error":{"message":"No Predictions data was found."}}`
		_, err := f.provider(t).GetTideData(request("8454000", 1))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "No Predictions data was found.", apiErr.Message)
	})

	t.Run("http status", func(t *testing.T) {
		f := newFakeNOAA(t)
		f.status = http.StatusServiceUnavailable
		_, err := f.provider(t).GetTideData(request("8454000", 1))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFakeNOAA(t)
		f.predictions = `{"predictions": [`
		_, err := f.provider(t).GetTideData(request("8454000", 1))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Error(t, errors.Unwrap(err))
	})
}

func TestRegisteredAsBuiltin(t *testing.T) {
	info := plugin.Builtins().Get(Name)
	require.NotNil(t, info)

	entry, err := info.Factory()
	require.NoError(t, err)
	assert.NotNil(t, entry)
}
