package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/models"
)

// fakeUserStore is an in-memory UserStore for handler tests. Passwords are
// kept in clear since nothing here leaves the process.
type fakeUserStore struct {
	nextID    int64
	users     map[string]*models.User
	passwords map[string]string
	verifyErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
	}
}

func (f *fakeUserStore) Register(_ context.Context, email, password string) (int64, error) {
	if _, ok := f.users[email]; ok {
		return 0, interfaces.ErrUserExists
	}
	f.nextID++
	f.users[email] = &models.User{
		ID:        f.nextID,
		Email:     email,
		CreatedAt: time.Now(),
	}
	f.passwords[email] = password
	return f.nextID, nil
}

func (f *fakeUserStore) Verify(_ context.Context, email, password string) (bool, error) {
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	stored, ok := f.passwords[email]
	return ok && stored == password, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, interfaces.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, interfaces.ErrUserNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			delete(f.passwords, email)
			return nil
		}
	}
	return interfaces.ErrUserNotFound
}

func (f *fakeUserStore) Close() error { return nil }

// fakeRatesService serves a scripted series.
type fakeRatesService struct {
	instruments []models.Instrument
	series      []models.PricePoint
	seriesErr   error
	latest      models.PricePoint
	latestErr   error
}

func (f *fakeRatesService) Instruments() []models.Instrument { return f.instruments }

func (f *fakeRatesService) Instrument(id string) (models.Instrument, bool) {
	for _, inst := range f.instruments {
		if inst.ID == id {
			return inst, true
		}
	}
	return models.Instrument{}, false
}

func (f *fakeRatesService) FetchSeries(context.Context, models.Instrument, models.DateRange) ([]models.PricePoint, error) {
	return f.series, f.seriesErr
}

func (f *fakeRatesService) NearestAvailable(context.Context, models.Instrument) (models.PricePoint, error) {
	return f.latest, f.latestErr
}

// fakeReportService returns a recognizable marker payload.
type fakeReportService struct {
	exportErr error
}

func (f *fakeReportService) Export(_ context.Context, label string, _ []models.PricePoint, _ models.SeriesStats) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return []byte(fmt.Sprintf("workbook:%s", label)), nil
}

func testPoints(n int) []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, n)
	for i := range out {
		out[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Value: 200 + float64(i%7)}
	}
	return out
}

// newTestServer builds a server over the fakes with middleware applied.
func newTestServer(users interfaces.UserStore, rates interfaces.RatesService, reports interfaces.ReportService) *Server {
	cfg := common.NewDefaultConfig()
	cfg.Auth.JWTSecret = "test-secret-key"
	return NewServer(cfg, common.NewSilentLogger(), users, rates, reports)
}

func defaultFakeRates() *fakeRatesService {
	return &fakeRatesService{
		instruments: []models.Instrument{
			{ID: "gold", Name: "Gold", Kind: models.KindMetal, Endpoint: "/bankingots/prices/0"},
			{ID: "usd", Name: "US Dollar", Kind: models.KindCurrency, Endpoint: "/exrates/rates/dynamics/431"},
		},
		series: testPoints(30),
		latest: models.PricePoint{Date: time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), Value: 245.81},
	}
}
