package randomizer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T, participants *fakeParticipants) (*httptest.Server, *App, func(d time.Duration), *recorder) {
	t.Helper()
	s, clock, rec := newTestSession(t, DefaultConfig())
	app := NewApp(s, participants, newFakePublisher(), DefaultAppConfig())

	mux := http.NewServeMux()
	NewService(app).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, app, clock.Advance, rec
}

func doRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestServiceParticipants(t *testing.T) {
	participants := &fakeParticipants{list: makeParticipants(2)}
	srv, _, _, _ := newTestServer(t, participants)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/participants")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[ParticipantsResponse](t, resp)
	if diff := cmp.Diff(ParticipantsResponse{Count: 2, Participants: makeParticipants(2)}, body); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/participants")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestServiceReloadFailureIsNotSurfaced(t *testing.T) {
	participants := &fakeParticipants{list: makeParticipants(1), err: errors.New("offline")}
	srv, _, _, _ := newTestServer(t, participants)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/participants/reload")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 despite fetch failure, got %d", resp.StatusCode)
	}
	if body := decode[ParticipantsResponse](t, resp); body.Count != 1 {
		t.Errorf("expected current list of 1, got %d", body.Count)
	}
}

func TestServiceStartAndReset(t *testing.T) {
	participants := &fakeParticipants{list: makeParticipants(5)}
	srv, _, advance, rec := newTestServer(t, participants)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/randomizer/reset")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("reset from idle: expected 409, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/randomizer/start")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("start: expected 202, got %d", resp.StatusCode)
	}
	if snap := decode[Snapshot](t, resp); snap.Phase != PhaseAnimating {
		t.Errorf("expected animating, got %s", snap.Phase)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/randomizer/start")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second start: expected 409, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/participants/reload")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("reload while animating: expected 409, got %d", resp.StatusCode)
	}

	advance(3 * time.Second)
	rec.waitFor(t, EventTypeSelectionResolved)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/randomizer/state")
	snap := decode[Snapshot](t, resp)
	if snap.Phase != PhaseResolved || snap.Winner == nil {
		t.Fatalf("expected resolved state with a winner, got %+v", snap)
	}
	if !contains(participants.List(), snap.Winner) {
		t.Errorf("winner %+v is not a participant", snap.Winner)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/randomizer/reset")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", resp.StatusCode)
	}
	if snap := decode[Snapshot](t, resp); snap.Phase != PhaseIdle || snap.Winner != nil {
		t.Errorf("expected idle without winner, got %+v", snap)
	}
}

func TestServiceExport(t *testing.T) {
	participants := &fakeParticipants{csv: "Name,Email,Date Registered\nA,a@x.com,t1\nB,b@x.com,t2"}
	srv, _, _, _ := newTestServer(t, participants)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/participants/export")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=participants.csv" {
		t.Errorf("unexpected content disposition %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != participants.csv {
		t.Errorf("unexpected body %q", body)
	}
}

func TestServiceExportFailure(t *testing.T) {
	participants := &fakeParticipants{err: errors.New("offline")}
	srv, _, _, _ := newTestServer(t, participants)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/participants/export")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.StatusCode)
	}
}

var _ RaffleApp = (*App)(nil)
var _ ParticipantsApp = (*fakeParticipants)(nil)
