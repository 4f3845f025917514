package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halloway/timeline-companion/internal/app"
	"github.com/halloway/timeline-companion/internal/source"
	"github.com/halloway/timeline-companion/internal/view"
)

const eventsCSV = `Event Name,Beginning Date,Time,Location,Related People & Groups,Tags,Document Images
Treaty Signed,3/1/1920,14:30,Paris,Ada Lovelace,Diplomacy,scan.jpg (https://cdn.example/scan.jpg)
Archive Opened,3/2/1920,,London,,,
Paris Exhibition,3/2/1920,9:00,Paris,,Culture,
`

const peopleCSV = `Name,Record ID,Summary,Related Events
Ada Lovelace,rec0123456789,Mathematician,Treaty Signed
`

type staticFetcher struct{ data source.DataSet }

func (f staticFetcher) FetchAll(ctx context.Context, specs []source.Spec) (source.DataSet, error) {
	return f.data, nil
}

func testSession(t *testing.T) *app.Session {
	t.Helper()
	s := app.NewSession(staticFetcher{data: source.DataSet{
		source.NameEvents: {Data: []byte(eventsCSV)},
		source.NamePeople: {Data: []byte(peopleCSV)},
	}}, nil)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func testServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	session := testSession(t)
	health := app.HealthService{Version: "test-version", Session: session}
	opts = append([]ServerOption{WithSession(session)}, opts...)
	return NewServer(":0", health, opts...)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp app.HealthResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-version", resp.Version)
	assert.True(t, resp.Loaded)
}

func TestHealthEndpointMethodNotAllowed(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	// Go 1.22's ServeMux returns 405 for wrong method
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTimelineEndpoint_Unfiltered(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/timeline")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp timelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "", resp.State)
	assert.Equal(t, 3, resp.Timeline.Total)
	assert.Equal(t, 3, resp.Timeline.Matched)
	require.Len(t, resp.Timeline.Groups, 2)
	assert.Equal(t, "1920-03-01", resp.Timeline.Groups[0].Key)
	assert.Len(t, resp.Timeline.Groups[1].Events, 2)
}

func TestTimelineEndpoint_SharedLinkEqualsManualSelection(t *testing.T) {
	s := testServer(t)

	// A shared URL restores the same result set as clicking the controls.
	shared := get(t, s, "/api/v1/timeline?loc=Paris&media=1")
	require.Equal(t, http.StatusOK, shared.Code)

	var resp timelineResponse
	require.NoError(t, json.NewDecoder(shared.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Timeline.Matched)
	require.Len(t, resp.Timeline.Groups, 1)
	assert.Equal(t, "Treaty Signed", resp.Timeline.Groups[0].Events[0].Name)

	// The response state is the canonical re-encoding.
	assert.Equal(t, "loc=Paris&media=1", resp.State)

	// Pipe-joined and repeated params are equivalent spellings.
	repeated := get(t, s, "/api/v1/timeline?media=1&loc=Paris")
	var again timelineResponse
	require.NoError(t, json.NewDecoder(repeated.Body).Decode(&again))
	assert.Equal(t, resp.State, again.State)
	assert.Equal(t, resp.Timeline, again.Timeline)
}

func TestTimelineEndpoint_DeepLinkIdentifierResolved(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/timeline?rkind=person&rname=rec0123456789")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp timelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Ada Lovelace", resp.DeepLink.RecordName)
	assert.Equal(t, "person", resp.DeepLink.RecordKind)
	assert.Contains(t, resp.State, "rname=Ada+Lovelace")
}

func TestTimelineEndpoint_MalformedQueryDegrades(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/timeline?loc=%zz")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp timelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Timeline.Matched, "malformed query falls back to the empty state")
}

func TestEventEndpoint(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/v1/events/Treaty%20Signed")
	require.Equal(t, http.StatusOK, rec.Code)

	var ev view.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ev))
	assert.Equal(t, "Treaty Signed", ev.Name)
	assert.Equal(t, "2:30 PM", ev.TimeLabel)

	missing := get(t, s, "/api/v1/events/Nope")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestRecordEndpoint(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/v1/records/person/Ada%20Lovelace")
	require.Equal(t, http.StatusOK, rec.Code)

	var panel view.RecordPanel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&panel))
	assert.False(t, panel.Stub)
	assert.Equal(t, "Mathematician", panel.Summary)
	assert.Equal(t, []string{"Treaty Signed"}, panel.Events)

	// Names without a catalog row still get a usable stub panel.
	stub := get(t, s, "/api/v1/records/location/London")
	require.Equal(t, http.StatusOK, stub.Code)
	var stubPanel view.RecordPanel
	require.NoError(t, json.NewDecoder(stub.Body).Decode(&stubPanel))
	assert.True(t, stubPanel.Stub)

	bad := get(t, s, "/api/v1/records/planet/Mars")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestEndpointsBeforeLoad(t *testing.T) {
	session := app.NewSession(staticFetcher{}, nil)
	health := app.HealthService{Version: "v", Session: session}
	s := NewServer(":0", health, WithSession(session))

	for _, target := range []string{
		"/api/v1/timeline",
		"/api/v1/events/x",
		"/api/v1/records/person/x",
		"/api/v1/site",
		"/api/v1/freshness",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/health")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
