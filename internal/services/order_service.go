package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cake_store/internal/models"
	"cake_store/internal/redis"
	"cake_store/pkg/bakery"
	"cake_store/pkg/dateutil"
)

// ErrSessionNotFound is returned when a draft session has expired or never
// existed.
var ErrSessionNotFound = errors.New("draft session not found")

// ErrDateNotAllowed is returned when a pickup date fails the schedule rules.
var ErrDateNotAllowed = errors.New("pickup date not available")

// ValidationError lists the required fields missing from a submission.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// RejectionError carries the bakery API's reason for refusing an order, e.g.
// a stock conflict detected server-side. The draft is preserved so the
// customer can correct and resubmit.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// DraftStore persists draft sessions. Implemented by the redis client.
type DraftStore interface {
	SetDraft(sessionID string, draft *models.DraftOrder, ttl time.Duration) error
	GetDraft(sessionID string) (*models.DraftOrder, error)
	DeleteDraft(sessionID string) error
}

// SubmitRequest carries the contact fields entered at submission time.
type SubmitRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Tel       string `json:"tel"`
	Message   string `json:"message"`
}

// OrderService owns the draft-order lifecycle: one session holds one draft,
// every edit produces a new stored value, and submission posts the reservation
// to the bakery API and resets the draft.
type OrderService interface {
	CreateDraft(ctx context.Context) (string, *models.DraftOrder, error)
	GetDraft(ctx context.Context, sessionID string) (*models.DraftOrder, error)
	AddLine(ctx context.Context, sessionID string) (*models.DraftOrder, error)
	UpdateLine(ctx context.Context, sessionID string, index int, line models.DraftLine) (*models.DraftOrder, error)
	RemoveLine(ctx context.Context, sessionID string, index int) (*models.DraftOrder, error)
	SetPickup(ctx context.Context, sessionID string, date, hour string) (*models.DraftOrder, error)
	Submit(ctx context.Context, sessionID string, req SubmitRequest) (*models.Order, error)
}

type orderService struct {
	store    DraftStore
	client   *bakery.Client
	catalog  CatalogService
	schedule ScheduleService
	ttl      time.Duration
}

func NewOrderService(store DraftStore, client *bakery.Client, catalog CatalogService, schedule ScheduleService, sessionTTL time.Duration) OrderService {
	return &orderService{
		store:    store,
		client:   client,
		catalog:  catalog,
		schedule: schedule,
		ttl:      sessionTTL,
	}
}

// defaultLine picks the first catalog cake and its first in-stock size, so a
// fresh line starts from something orderable.
func defaultLine(catalog models.Catalog) models.DraftLine {
	line := models.DraftLine{Amount: 1}
	if len(catalog) == 0 {
		return line
	}

	cake := catalog.Sorted()[0]
	line.CakeID = cake.ID
	line.Name = cake.Name
	for _, size := range cake.SortedSizes() {
		if size.Stock > 0 {
			line.Size = size.Size
			line.Price = size.Price
			break
		}
	}
	return line
}

func (s *orderService) CreateDraft(ctx context.Context) (string, *models.DraftOrder, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	draft := &models.DraftOrder{
		Lines:     []models.DraftLine{defaultLine(catalog)},
		CreatedAt: now,
		UpdatedAt: now,
	}

	sessionID := uuid.NewString()
	if err := s.store.SetDraft(sessionID, draft, s.ttl); err != nil {
		return "", nil, fmt.Errorf("failed to store draft: %w", err)
	}
	return sessionID, draft, nil
}

func (s *orderService) GetDraft(ctx context.Context, sessionID string) (*models.DraftOrder, error) {
	draft, err := s.store.GetDraft(sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return draft, nil
}

func (s *orderService) save(sessionID string, draft *models.DraftOrder) error {
	draft.UpdatedAt = time.Now()
	if err := s.store.SetDraft(sessionID, draft, s.ttl); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (s *orderService) AddLine(ctx context.Context, sessionID string) (*models.DraftOrder, error) {
	draft, err := s.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	draft.Lines = append(draft.Lines, defaultLine(catalog))
	if err := s.save(sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *orderService) UpdateLine(ctx context.Context, sessionID string, index int, line models.DraftLine) (*models.DraftOrder, error) {
	draft, err := s.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Lines) {
		return nil, fmt.Errorf("line index %d out of range", index)
	}
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if cake, ok := catalog.ByID(line.CakeID); ok {
		line.Name = cake.Name
		// Cakes with a single in-stock size select it automatically.
		if line.Size == "" && len(cake.Sizes) == 1 && cake.Sizes[0].Stock > 0 {
			line.Size = cake.Sizes[0].Size
			line.Price = cake.Sizes[0].Price
		}
		// Price is snapshotted from the catalog at selection time.
		if size, ok := cake.FindSize(line.Size); ok {
			line.Price = size.Price
		}
	}
	if line.Amount < 1 {
		line.Amount = 1
	}

	draft.Lines[index] = line
	if err := s.save(sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *orderService) RemoveLine(ctx context.Context, sessionID string, index int) (*models.DraftOrder, error) {
	draft, err := s.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Lines) {
		return nil, fmt.Errorf("line index %d out of range", index)
	}
	if len(draft.Lines) == 1 {
		return nil, errors.New("at least one cake is required")
	}

	draft.Lines = append(draft.Lines[:index], draft.Lines[index+1:]...)
	if err := s.save(sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *orderService) SetPickup(ctx context.Context, sessionID string, date, hour string) (*models.DraftOrder, error) {
	draft, err := s.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if date != "" {
		parsed, err := dateutil.Parse(date)
		if err != nil {
			return nil, fmt.Errorf("invalid pickup date %q: %w", date, err)
		}
		if !s.schedule.IsDateAllowed(parsed) {
			return nil, ErrDateNotAllowed
		}
	}

	draft.Date = dateutil.DateOnly(date)
	draft.PickupHour = hour
	if err := s.save(sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *orderService) validate(draft *models.DraftOrder, req SubmitRequest) error {
	var missing []string
	if strings.TrimSpace(req.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(req.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.Tel) == "" {
		missing = append(missing, "tel")
	}
	if draft.Date == "" {
		missing = append(missing, "date")
	}
	if draft.PickupHour == "" {
		missing = append(missing, "pickup_hour")
	}
	for i, line := range draft.Lines {
		if line.CakeID == 0 || strings.TrimSpace(line.Size) == "" || line.Amount < 1 {
			missing = append(missing, fmt.Sprintf("lines[%d]", i))
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Submit validates the draft, posts it to the bakery API and, on success,
// resets the session to a single default line. On rejection or transport
// failure the draft is left untouched for a retry.
func (s *orderService) Submit(ctx context.Context, sessionID string, req SubmitRequest) (*models.Order, error) {
	draft, err := s.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(draft, req); err != nil {
		return nil, err
	}

	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		IDClient:   uuid.NewString(),
		FirstName:  toKatakana(strings.TrimSpace(req.FirstName)),
		LastName:   toKatakana(strings.TrimSpace(req.LastName)),
		Email:      strings.TrimSpace(req.Email),
		Tel:        strings.TrimSpace(req.Tel),
		Date:       draft.Date,
		DateOrder:  dateutil.Format(time.Now()),
		PickupHour: draft.PickupHour,
		Status:     models.StatusReserved,
		Message:    req.Message,
		Cakes:      make([]models.OrderLine, 0, len(draft.Lines)),
	}
	for _, line := range draft.Lines {
		name := line.Name
		if cake, ok := catalog.ByID(line.CakeID); ok {
			name = cake.Name
		}
		order.Cakes = append(order.Cakes, models.OrderLine{
			CakeID:      line.CakeID,
			Name:        name,
			Amount:      line.Amount,
			Price:       line.Price,
			Size:        line.Size,
			MessageCake: line.MessageCake,
		})
	}

	resp, err := s.client.SubmitOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RejectionError{Reason: resp.Error}
	}

	reset := &models.DraftOrder{
		Lines:     []models.DraftLine{defaultLine(catalog)},
		CreatedAt: draft.CreatedAt,
	}
	if err := s.save(sessionID, reset); err != nil {
		return nil, err
	}
	return order, nil
}

// toKatakana converts hiragana runes to their katakana counterparts, as the
// order form expects name fields in katakana.
func toKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x3041 && r <= 0x3096 {
			return r + 0x60
		}
		return r
	}, s)
}
