package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cake_store/internal/models"
	"cake_store/internal/redis"
	"cake_store/pkg/bakery"
)

type fakeDraftStore struct {
	drafts map[string]*models.DraftOrder
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]*models.DraftOrder)}
}

func (f *fakeDraftStore) SetDraft(sessionID string, draft *models.DraftOrder, ttl time.Duration) error {
	stored := *draft
	stored.Lines = append([]models.DraftLine(nil), draft.Lines...)
	f.drafts[sessionID] = &stored
	return nil
}

func (f *fakeDraftStore) GetDraft(sessionID string) (*models.DraftOrder, error) {
	draft, ok := f.drafts[sessionID]
	if !ok {
		return nil, redis.ErrNotFound
	}
	copied := *draft
	copied.Lines = append([]models.DraftLine(nil), draft.Lines...)
	return &copied, nil
}

func (f *fakeDraftStore) DeleteDraft(sessionID string) error {
	delete(f.drafts, sessionID)
	return nil
}

// bakeryServer serves the catalog and records submissions. The submit
// response is controlled per test.
func bakeryServer(t *testing.T, submitResponse string, submitted *models.Order) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cake", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"cakes":   testCatalog(),
		})
	})
	mux.HandleFunc("/api/reservar", func(w http.ResponseWriter, r *http.Request) {
		if submitted != nil {
			if err := json.NewDecoder(r.Body).Decode(submitted); err != nil {
				t.Errorf("failed to decode submitted order: %v", err)
			}
		}
		w.Write([]byte(submitResponse))
	})
	return httptest.NewServer(mux)
}

func newTestOrderService(store DraftStore, baseURL string) OrderService {
	client := bakery.NewClient(baseURL)
	catalog := NewCatalogService(client, nil, 0)
	schedule := &scheduleService{
		leadDays: 3,
		pickupDates: []time.Time{
			localDate(2025, time.December, 24),
			localDate(2025, time.December, 25),
		},
		now: fixedNow(2025, time.December, 1),
	}
	return NewOrderService(store, client, catalog, schedule, time.Hour)
}

func TestCreateDraftDefaultLine(t *testing.T) {
	srv := bakeryServer(t, `{"success":true}`, nil)
	defer srv.Close()

	svc := newTestOrderService(newFakeDraftStore(), srv.URL)
	sessionID, draft, err := svc.CreateDraft(context.Background())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session ID")
	}
	if len(draft.Lines) != 1 {
		t.Fatalf("expected one default line, got %d", len(draft.Lines))
	}

	// First catalog cake (ID 1) and its first in-stock size by size ID.
	line := draft.Lines[0]
	if line.CakeID != 1 || line.Size != "M" || line.Price != 3200 || line.Amount != 1 {
		t.Errorf("default line = %+v", line)
	}
}

func TestUpdateLineSingleSizeAutoSelect(t *testing.T) {
	srv := bakeryServer(t, `{"success":true}`, nil)
	defer srv.Close()

	store := newFakeDraftStore()
	svc := newTestOrderService(store, srv.URL)
	sessionID, _, err := svc.CreateDraft(context.Background())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	// Cake 2 has a single size but it is out of stock: no auto-select.
	draft, err := svc.UpdateLine(context.Background(), sessionID, 0, models.DraftLine{CakeID: 2, Amount: 1})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if draft.Lines[0].Size != "" {
		t.Errorf("sold-out single size must not auto-select, got %q", draft.Lines[0].Size)
	}
	if draft.Lines[0].Name != "チョコレートケーキ" {
		t.Errorf("name not synced from catalog: %q", draft.Lines[0].Name)
	}

	// Selecting a size snapshots its catalog price.
	draft, err = svc.UpdateLine(context.Background(), sessionID, 0, models.DraftLine{CakeID: 1, Size: "L", Amount: 2})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if draft.Lines[0].Price != 4800 {
		t.Errorf("price = %d, want catalog price 4800", draft.Lines[0].Price)
	}
}

func TestRemoveLineKeepsAtLeastOne(t *testing.T) {
	srv := bakeryServer(t, `{"success":true}`, nil)
	defer srv.Close()

	svc := newTestOrderService(newFakeDraftStore(), srv.URL)
	sessionID, _, err := svc.CreateDraft(context.Background())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	if _, err := svc.RemoveLine(context.Background(), sessionID, 0); err == nil {
		t.Error("removing the last line must fail")
	}

	if _, err := svc.AddLine(context.Background(), sessionID); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	draft, err := svc.RemoveLine(context.Background(), sessionID, 1)
	if err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(draft.Lines) != 1 {
		t.Errorf("lines = %d, want 1", len(draft.Lines))
	}
}

func TestSetPickupRejectsDisallowedDate(t *testing.T) {
	srv := bakeryServer(t, `{"success":true}`, nil)
	defer srv.Close()

	svc := newTestOrderService(newFakeDraftStore(), srv.URL)
	sessionID, _, err := svc.CreateDraft(context.Background())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	if _, err := svc.SetPickup(context.Background(), sessionID, "2025-12-26", "10:00"); !errors.Is(err, ErrDateNotAllowed) {
		t.Errorf("err = %v, want ErrDateNotAllowed", err)
	}

	draft, err := svc.SetPickup(context.Background(), sessionID, "2025-12-24", "10:00")
	if err != nil {
		t.Fatalf("SetPickup: %v", err)
	}
	if draft.Date != "2025-12-24" || draft.PickupHour != "10:00" {
		t.Errorf("pickup = %s %s", draft.Date, draft.PickupHour)
	}
}

func TestSubmitValidation(t *testing.T) {
	srv := bakeryServer(t, `{"success":true}`, nil)
	defer srv.Close()

	svc := newTestOrderService(newFakeDraftStore(), srv.URL)
	sessionID, _, err := svc.CreateDraft(context.Background())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	_, err = svc.Submit(context.Background(), sessionID, SubmitRequest{FirstName: "ヒガ"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"last_name", "email", "tel", "date", "pickup_hour"} {
		found := false
		for _, missing := range validation.Missing {
			if missing == field {
				found = true
			}
		}
		if !found {
			t.Errorf("missing fields %v lack %q", validation.Missing, field)
		}
	}
}

func TestSubmitSuccessResetsDraft(t *testing.T) {
	var submitted models.Order
	srv := bakeryServer(t, `{"success":true}`, &submitted)
	defer srv.Close()

	store := newFakeDraftStore()
	svc := newTestOrderService(store, srv.URL)
	ctx := context.Background()

	sessionID, _, err := svc.CreateDraft(ctx)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, err := svc.UpdateLine(ctx, sessionID, 0, models.DraftLine{CakeID: 1, Size: "L", Amount: 2}); err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if _, err := svc.SetPickup(ctx, sessionID, "2025-12-24", "10:00"); err != nil {
		t.Fatalf("SetPickup: %v", err)
	}

	order, err := svc.Submit(ctx, sessionID, SubmitRequest{
		FirstName: "ひが",
		LastName:  "たろう",
		Email:     "taro@example.com",
		Tel:       "09012345678",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Name fields are converted to katakana on the way out.
	if order.FirstName != "ヒガ" || order.LastName != "タロウ" {
		t.Errorf("names = %s %s, want katakana", order.FirstName, order.LastName)
	}
	if order.Status != models.StatusReserved {
		t.Errorf("status = %q, want %q", order.Status, models.StatusReserved)
	}
	if order.IDClient == "" {
		t.Error("expected a client ID")
	}
	if submitted.Date != "2025-12-24" || submitted.PickupHour != "10:00" {
		t.Errorf("submitted pickup = %s %s", submitted.Date, submitted.PickupHour)
	}
	if len(submitted.Cakes) != 1 || submitted.Cakes[0].Amount != 2 || submitted.Cakes[0].Price != 4800 {
		t.Errorf("submitted lines = %+v", submitted.Cakes)
	}

	// The draft resets to one default line with the pickup cleared.
	draft, err := svc.GetDraft(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if len(draft.Lines) != 1 || draft.Lines[0].Size != "M" || draft.Date != "" || draft.PickupHour != "" {
		t.Errorf("draft after submit = %+v", draft)
	}
}

func TestSubmitRejectionPreservesDraft(t *testing.T) {
	srv := bakeryServer(t, `{"success":false,"error":"在庫が不足しています"}`, nil)
	defer srv.Close()

	svc := newTestOrderService(newFakeDraftStore(), srv.URL)
	ctx := context.Background()

	sessionID, _, err := svc.CreateDraft(ctx)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, err := svc.UpdateLine(ctx, sessionID, 0, models.DraftLine{CakeID: 1, Size: "L", Amount: 2}); err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if _, err := svc.SetPickup(ctx, sessionID, "2025-12-24", "10:00"); err != nil {
		t.Fatalf("SetPickup: %v", err)
	}

	_, err = svc.Submit(ctx, sessionID, SubmitRequest{
		FirstName: "ヒガ", LastName: "タロウ", Email: "taro@example.com", Tel: "09012345678",
	})
	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("err = %v, want RejectionError", err)
	}
	if rejection.Reason != "在庫が不足しています" {
		t.Errorf("reason = %q", rejection.Reason)
	}

	// The customer can correct and resubmit: the draft is untouched.
	draft, err := svc.GetDraft(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if draft.Lines[0].Size != "L" || draft.Lines[0].Amount != 2 || draft.Date != "2025-12-24" {
		t.Errorf("draft changed after rejection: %+v", draft)
	}
}

func TestGetDraftUnknownSession(t *testing.T) {
	srv := bakeryServer(t, `{"success":true}`, nil)
	defer srv.Close()

	svc := newTestOrderService(newFakeDraftStore(), srv.URL)
	if _, err := svc.GetDraft(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
