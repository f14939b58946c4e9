package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/voxblast/callcenter-backend/internal/controller"
	appErrors "github.com/voxblast/callcenter-backend/internal/errors"
	"github.com/voxblast/callcenter-backend/internal/middleware"
	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/queue"
	"github.com/voxblast/callcenter-backend/internal/service"
)

// --- Mock repositories ---

type MockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	nextID    int
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.campaigns == nil {
		m.campaigns = map[int]*model.Campaign{}
		m.nextID = 1
	}
	c.ID = m.nextID
	m.nextID++
	m.campaigns[c.ID] = c
	return nil
}

func (m *MockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignRepo) ListByUser(userID, limit int) ([]*model.Campaign, error) {
	return []*model.Campaign{}, nil
}
func (m *MockCampaignRepo) List(limit int) ([]*model.Campaign, error) { return nil, nil }
func (m *MockCampaignRepo) UpdateStatus(campaignID int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[campaignID]; ok {
		c.Status = status
	}
	return nil
}
func (m *MockCampaignRepo) UpdateProgress(campaignID, completed, failed int) error { return nil }
func (m *MockCampaignRepo) Finish(campaignID int, status string, completed, failed int) error {
	return nil
}

type MockContactRepo struct{}

func (m *MockContactRepo) CreateBatch(contacts []*model.Contact) error            { return nil }
func (m *MockContactRepo) ListByCampaign(campaignID int) ([]*model.Contact, error) { return nil, nil }
func (m *MockContactRepo) ListByPhone(phone string) ([]*model.Contact, error)      { return nil, nil }

type MockCreditRepo struct {
	mu       sync.Mutex
	balances map[int]int
}

func (m *MockCreditRepo) GetBalance(userID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}
func (m *MockCreditRepo) Deduct(userID, amount int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[userID] < amount {
		return false, nil
	}
	m.balances[userID] -= amount
	return true, nil
}
func (m *MockCreditRepo) Add(userID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances == nil {
		m.balances = map[int]int{}
	}
	m.balances[userID] += amount
	return nil
}
func (m *MockCreditRepo) Set(userID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances == nil {
		m.balances = map[int]int{}
	}
	m.balances[userID] = amount
	return nil
}

type MockStatusRepo struct {
	mu       sync.Mutex
	activeID *int
}

func (m *MockStatusRepo) GetActive() (*model.CampaignStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &model.CampaignStatus{ID: 1, ActiveCampaignID: m.activeID}, nil
}
func (m *MockStatusRepo) Acquire(campaignID, userID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID != nil && *m.activeID != campaignID {
		return false, nil
	}
	m.activeID = &campaignID
	return true, nil
}
func (m *MockStatusRepo) Release(campaignID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID != nil && *m.activeID == campaignID {
		m.activeID = nil
	}
	return nil
}
func (m *MockStatusRepo) SetXMLLocked(locked bool) error { return nil }

type MockQueue struct{}

func (q *MockQueue) Publish(topic string, payload any) error                       { return nil }
func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

var _ queue.Queue = (*MockQueue)(nil)

// --- Helpers ---

func newRouter(creditRepo *MockCreditRepo) chi.Router {
	svc := &service.CampaignService{
		CampaignRepo: &MockCampaignRepo{},
		ContactRepo:  &MockContactRepo{},
		CreditRepo:   creditRepo,
		StatusRepo:   &MockStatusRepo{},
		Queue:        &MockQueue{},
	}
	validate := validator.New()
	campaignCtrl := &controller.CampaignController{CampaignService: svc, Validate: validate}
	creditCtrl := &controller.CreditController{CreditRepo: creditRepo, Validate: validate}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/api/bulk-calls", campaignCtrl.CreateBulkCall)
		r.Get("/api/credits", creditCtrl.GetCredits)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/api/admin/users/{id}/credits", creditCtrl.UpdateUserCredits)
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var asUser = map[string]string{"X-User-ID": "7"}
var asAdmin = map[string]string{"X-User-ID": "1", "X-User-Role": "admin"}

// --- Tests ---

func TestCreateBulkCallHandler(t *testing.T) {
	creditRepo := &MockCreditRepo{}
	creditRepo.Set(7, 100)
	r := newRouter(creditRepo)

	w := doJSON(t, r, "POST", "/api/bulk-calls", map[string]any{
		"name":      "Launch",
		"call_from": "15550009999",
		"region":    "US-EAST",
		"contacts":  "a@x.com|Alice|5551234567\n5559876543",
	}, asUser)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res map[string]any
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res["contacts_created"] != float64(2) {
		t.Errorf("expected 2 contacts created, got %v", res["contacts_created"])
	}
	if bulk, ok := res["bulk_call"].(map[string]any); !ok || bulk["status"] != "pending" {
		t.Errorf("expected pending bulk_call in response, got %v", res["bulk_call"])
	}
}

func TestCreateBulkCallRejectsBadRegion(t *testing.T) {
	creditRepo := &MockCreditRepo{}
	creditRepo.Set(7, 100)
	r := newRouter(creditRepo)

	w := doJSON(t, r, "POST", "/api/bulk-calls", map[string]any{
		"name":      "Launch",
		"call_from": "15550009999",
		"region":    "MOON-BASE",
		"contacts":  "5551234567",
	}, asUser)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid region, got %d", w.Code)
	}
}

func TestCreateBulkCallRequiresAuth(t *testing.T) {
	r := newRouter(&MockCreditRepo{})

	w := doJSON(t, r, "POST", "/api/bulk-calls", map[string]any{"name": "x"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity header, got %d", w.Code)
	}
}

func TestCreateBulkCallInsufficientCredits(t *testing.T) {
	r := newRouter(&MockCreditRepo{}) // zero balance

	w := doJSON(t, r, "POST", "/api/bulk-calls", map[string]any{
		"name":      "Broke",
		"call_from": "15550009999",
		"region":    "US-EAST",
		"contacts":  "5551234567",
	}, asUser)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for zero balance, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetCreditsHandler(t *testing.T) {
	creditRepo := &MockCreditRepo{}
	creditRepo.Set(7, 42)
	r := newRouter(creditRepo)

	w := doJSON(t, r, "GET", "/api/credits", nil, asUser)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "42") {
		t.Errorf("expected balance in response, got %s", w.Body.String())
	}
}

func TestUpdateUserCreditsAdminOnly(t *testing.T) {
	creditRepo := &MockCreditRepo{}
	r := newRouter(creditRepo)

	body := map[string]any{"credits": 10, "action": "add"}

	w := doJSON(t, r, "POST", "/api/admin/users/5/credits", body, asUser)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = doJSON(t, r, "POST", "/api/admin/users/5/credits", body, asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
	if balance, _ := creditRepo.GetBalance(5); balance != 10 {
		t.Errorf("expected balance 10 after add, got %d", balance)
	}
}

func TestUpdateUserCreditsRejectsNegative(t *testing.T) {
	r := newRouter(&MockCreditRepo{})

	w := doJSON(t, r, "POST", "/api/admin/users/5/credits", map[string]any{
		"credits": -5, "action": "set",
	}, asAdmin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative credits, got %d", w.Code)
	}
}

func TestUpdateUserCreditsRejectsUnknownAction(t *testing.T) {
	r := newRouter(&MockCreditRepo{})

	w := doJSON(t, r, "POST", "/api/admin/users/5/credits", map[string]any{
		"credits": 5, "action": "multiply",
	}, asAdmin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", w.Code)
	}
}
