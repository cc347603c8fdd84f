package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkarneyeu/ratewatch/internal/services/rates"
)

func getWithToken(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleInstrumentList(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()

	// The catalog needs a logged-in user.
	rr := getWithToken(t, h, "/api/instruments", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rr.Code)
	}

	token := loginToken(t, h, "alice@example.com")
	rr = getWithToken(t, h, "/api/instruments", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp struct {
		Instruments []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"instruments"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Instruments) != 2 {
		t.Fatalf("expected 2 instruments, got %d", len(resp.Instruments))
	}
	if resp.Instruments[0].ID != "gold" || resp.Instruments[0].Kind != "metal" {
		t.Errorf("first instrument = %+v", resp.Instruments[0])
	}
}

func TestHandleSeries(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/series?start=2024-01-01&end=2024-01-30", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Series []struct {
			Value float64 `json:"value"`
		} `json:"series"`
		Stats struct {
			Mean float64 `json:"mean"`
			Max  float64 `json:"max"`
		} `json:"stats"`
		Histogram []struct {
			Count int `json:"count"`
		} `json:"histogram"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Series) != 30 {
		t.Errorf("series length = %d, want 30", len(resp.Series))
	}
	if resp.Stats.Max != 206 {
		t.Errorf("max = %v, want 206", resp.Stats.Max)
	}
	if len(resp.Histogram) == 0 {
		t.Error("expected histogram bins")
	}
}

func TestHandleSeries_RequiresAuth(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})

	rr := getWithToken(t, srv.Handler(), "/api/instruments/gold/series", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestHandleSeries_UnknownInstrument(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/plutonium/series", token)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleSeries_UpstreamFailure(t *testing.T) {
	ratesSvc := defaultFakeRates()
	ratesSvc.seriesErr = errors.New("connection reset")
	srv := newTestServer(newFakeUserStore(), ratesSvc, &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/series", token)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestHandleSeries_EmptyWindow(t *testing.T) {
	ratesSvc := defaultFakeRates()
	ratesSvc.series = nil
	srv := newTestServer(newFakeUserStore(), ratesSvc, &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/series", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Series []json.RawMessage `json:"series"`
		NoData bool              `json:"no_data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Series) != 0 {
		t.Errorf("expected empty series, got %d points", len(resp.Series))
	}
	if !resp.NoData {
		t.Error("expected no_data flag")
	}
}

func TestHandleSeries_BadDates(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/series?start=13-13-2024", token)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed date status = %d, want 400", rr.Code)
	}
	rr = getWithToken(t, h, "/api/instruments/gold/series?start=2024-06-01&end=2024-01-01", token)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("reversed range status = %d, want 400", rr.Code)
	}
}

func TestHandleLatest(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/latest", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Point struct {
			Value float64 `json:"value"`
		} `json:"point"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Point.Value != 245.81 {
		t.Errorf("value = %v, want 245.81", resp.Point.Value)
	}
}

func TestHandleLatest_NoRecentData(t *testing.T) {
	ratesSvc := defaultFakeRates()
	ratesSvc.latestErr = rates.ErrNoRecentData
	srv := newTestServer(newFakeUserStore(), ratesSvc, &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/latest", token)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleChart(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	for _, kind := range []string{"", "line", "histogram", "density"} {
		path := "/api/instruments/gold/chart"
		if kind != "" {
			path += "?kind=" + kind
		}
		rr := getWithToken(t, h, path, token)
		if rr.Code != http.StatusOK {
			t.Errorf("kind %q status = %d, want 200: %s", kind, rr.Code, rr.Body.String())
			continue
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("kind %q content type = %q", kind, ct)
		}
	}

	rr := getWithToken(t, h, "/api/instruments/gold/chart?kind=pie", token)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown kind status = %d, want 400", rr.Code)
	}
}

func TestHandleReport(t *testing.T) {
	srv := newTestServer(newFakeUserStore(), defaultFakeRates(), &fakeReportService{})
	h := srv.Handler()
	token := loginToken(t, h, "alice@example.com")

	rr := getWithToken(t, h, "/api/instruments/gold/report", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "gold-report.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	if rr.Body.String() != "workbook:Gold" {
		t.Errorf("body = %q", rr.Body.String())
	}
}
