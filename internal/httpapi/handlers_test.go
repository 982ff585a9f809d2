package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonretail/backend/internal/domain"
	"salonretail/backend/internal/service"
	"salonretail/backend/internal/store"
	"salonretail/backend/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var seedDay = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

// newTestAPI builds a full API over the seeded memory store so handler tests
// exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()
	return newTestAPIWithRepo(t, memory.NewSeededAt(seedDay), RateLimit{RPS: 100, Burst: 100})
}

func newTestAPIWithRepo(t *testing.T, repo store.Repository, limits RateLimit) *API {
	t.Helper()
	now := func() time.Time { return seedDay.Add(9 * time.Hour) }
	svc := service.New(repo, nil, service.Options{Timeout: 5 * time.Second, Now: now})
	return New(svc, NewAuthManager(testSecret), "http://127.0.0.1:3000", limits)
}

func mustToken(t *testing.T, role string) string {
	t.Helper()
	token, err := NewAuthManager(testSecret).IssueToken("owner@salon.test", role, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doGet(t *testing.T, api *API, path string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.7:41000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doGet(t, newTestAPI(t), "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body)
	}
}

func TestRetailReportReturnsJSON(t *testing.T) {
	api := newTestAPI(t)
	rec := doGet(t, api, "/api/v1/reports/retail?from=2026-02-15&to=2026-03-14&location=all", mustToken(t, RoleManager))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.RetailReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Period.SpanDays != 28 || len(report.Products) == 0 || len(report.Daily) != 28 {
		t.Fatalf("unexpected report: period=%+v products=%d daily=%d", report.Period, len(report.Products), len(report.Daily))
	}
	if !report.NativeSourceAvailable {
		t.Fatalf("expected native source to be reported available")
	}
}

func TestRetailReportWithoutDatesIsEmpty(t *testing.T) {
	rec := doGet(t, newTestAPI(t), "/api/v1/reports/retail", mustToken(t, RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Fatalf("expected empty product list, got %s", rec.Body.String())
	}
}

func TestRetailReportRejectsBadQuery(t *testing.T) {
	api := newTestAPI(t)
	token := mustToken(t, RoleAdmin)

	for _, path := range []string{
		"/api/v1/reports/retail?from=2026-03-14&to=2026-03-01",
		"/api/v1/reports/retail?from=2026-03-01&to=2026-03-07&location=downtown",
	} {
		rec := doGet(t, api, path, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestRetailExportWritesCSVAttachment(t *testing.T) {
	rec := doGet(t, newTestAPI(t), "/api/v1/reports/retail/export/deadstock?from=2026-02-15&to=2026-03-14", mustToken(t, RoleManager))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("expected csv content type, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="retail-deadstock-2026-03-14.csv"` {
		t.Fatalf("unexpected content disposition %q", got)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], `"Product"`) {
		t.Fatalf("unexpected csv body %q", rec.Body.String())
	}
}

func TestRetailExportUnknownFacet(t *testing.T) {
	rec := doGet(t, newTestAPI(t), "/api/v1/reports/retail/export/clients?from=2026-03-01&to=2026-03-07", mustToken(t, RoleAdmin))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

type failingRepo struct {
	store.Repository
}

func (failingRepo) ListCatalog(_ context.Context, _ store.Page) ([]domain.CatalogEntry, error) {
	return nil, errors.New("pq: relation products is locked by vacuum")
}

func TestRetailReportScrubsStoreFailures(t *testing.T) {
	api := newTestAPIWithRepo(t, failingRepo{Repository: memory.NewSeededAt(seedDay)}, RateLimit{RPS: 100, Burst: 100})
	rec := doGet(t, api, "/api/v1/reports/retail?from=2026-03-01&to=2026-03-07", mustToken(t, RoleAdmin))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "vacuum") {
		t.Fatalf("expected store error to be scrubbed, got %s", rec.Body.String())
	}
}

func TestStatusForReportError(t *testing.T) {
	cases := map[error]int{
		store.ErrInvalidQuery:                            http.StatusBadRequest,
		context.DeadlineExceeded:                         http.StatusGatewayTimeout,
		fmt.Errorf("load catalog: %w", context.Canceled): statusClientClosedRequest,
		errors.New("boom"):                               http.StatusBadGateway,
	}
	for err, want := range cases {
		if got := statusForReportError(err); got != want {
			t.Fatalf("%v: expected %d, got %d", err, want, got)
		}
	}
}

func TestRetailReportCancelledByClientIsNotAGatewayError(t *testing.T) {
	api := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/retail?from=2026-03-01&to=2026-03-07", nil).WithContext(ctx)
	req.RemoteAddr = "10.0.0.7:41000"
	req.Header.Set("Authorization", "Bearer "+mustToken(t, RoleAdmin))
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != statusClientClosedRequest {
		t.Fatalf("expected %d for a cancelled request, got %d", statusClientClosedRequest, rec.Code)
	}
}
