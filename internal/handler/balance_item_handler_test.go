package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/kicho/internal/model"
)

// --- モック定義 ---

type mockBalanceItemService struct {
	createFn func(ctx context.Context, userID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error)
	listFn   func(ctx context.Context, userID string) ([]*model.BalanceItem, error)
	getFn    func(ctx context.Context, userID, itemID string) (*model.BalanceItem, error)
	updateFn func(ctx context.Context, userID, itemID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error)
	deleteFn func(ctx context.Context, userID, itemID string) error
}

func (m *mockBalanceItemService) Create(ctx context.Context, userID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, kind, name, amountCents, note)
	}
	return nil, nil
}

func (m *mockBalanceItemService) List(ctx context.Context, userID string) ([]*model.BalanceItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBalanceItemService) Get(ctx context.Context, userID, itemID string) (*model.BalanceItem, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, itemID)
	}
	return nil, nil
}

func (m *mockBalanceItemService) Update(ctx context.Context, userID, itemID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, itemID, kind, name, amountCents, note)
	}
	return nil, nil
}

func (m *mockBalanceItemService) Delete(ctx context.Context, userID, itemID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, itemID)
	}
	return nil
}

// --- テストヘルパー ---

// testBalanceItem はテスト用の資産項目を返す。
func testBalanceItem() *model.BalanceItem {
	return &model.BalanceItem{
		ID:          "item-1",
		UserID:      "user-1",
		Kind:        model.BalanceItemKindAsset,
		Name:        "事業用普通預金",
		AmountCents: 1000000,
		Note:        "みずほ銀行",
		CreatedAt:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- POST /api/balance-items テスト ---

func TestBalanceItemHandler_Create_Success(t *testing.T) {
	svc := &mockBalanceItemService{
		createFn: func(ctx context.Context, userID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want %q", userID, "user-1")
			}
			if kind != model.BalanceItemKindAsset {
				t.Errorf("kind = %q, want %q", kind, model.BalanceItemKindAsset)
			}
			if name != "事業用普通預金" {
				t.Errorf("name = %q, want %q", name, "事業用普通預金")
			}
			return testBalanceItem(), nil
		},
	}
	h := NewBalanceItemHandler(svc)

	body := `{"kind": "asset", "name": "事業用普通預金", "amount_cents": 1000000, "note": "みずほ銀行"}`
	req := httptest.NewRequest(http.MethodPost, "/api/balance-items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}

	result := parseSuccessResponse(t, w)
	data := dataObject(t, result)
	if data["kind"] != "asset" {
		t.Errorf("data.kind = %v, want %q", data["kind"], "asset")
	}
	if data["amount_cents"] != float64(1000000) {
		t.Errorf("data.amount_cents = %v, want 1000000", data["amount_cents"])
	}
	if data["note"] != "みずほ銀行" {
		t.Errorf("data.note = %v, want %q", data["note"], "みずほ銀行")
	}
}

func TestBalanceItemHandler_Create_ValidationError_ReturnsBadRequest(t *testing.T) {
	svc := &mockBalanceItemService{
		createFn: func(ctx context.Context, userID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
			return nil, model.NewValidationError("区分はassetまたはliabilityを指定してください")
		},
	}
	h := NewBalanceItemHandler(svc)

	body := `{"kind": "equity", "name": "資本金", "amount_cents": 1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/balance-items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeValidation {
		t.Errorf("code = %v, want %q", errResp["code"], model.ErrCodeValidation)
	}
}

func TestBalanceItemHandler_Create_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	h := NewBalanceItemHandler(&mockBalanceItemService{})

	req := httptest.NewRequest(http.MethodPost, "/api/balance-items", bytes.NewBufferString("{{"))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestBalanceItemHandler_Create_NoAuthContext_ReturnsUnauthorized(t *testing.T) {
	h := NewBalanceItemHandler(&mockBalanceItemService{})

	body := `{"kind": "asset", "name": "現金", "amount_cents": 1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/balance-items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- GET /api/balance-items テスト ---

func TestBalanceItemHandler_List_Success(t *testing.T) {
	liability := &model.BalanceItem{
		ID:          "item-2",
		UserID:      "user-1",
		Kind:        model.BalanceItemKindLiability,
		Name:        "借入金",
		AmountCents: 400000,
	}
	svc := &mockBalanceItemService{
		listFn: func(ctx context.Context, userID string) ([]*model.BalanceItem, error) {
			return []*model.BalanceItem{testBalanceItem(), liability}, nil
		},
	}
	h := NewBalanceItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/balance-items", nil)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	result := parseSuccessResponse(t, w)
	items := dataArray(t, result)
	if len(items) != 2 {
		t.Fatalf("data length = %d, want 2", len(items))
	}

	second, ok := items[1].(map[string]interface{})
	if !ok {
		t.Fatalf("data[1] = %v, want object", items[1])
	}
	if second["kind"] != "liability" {
		t.Errorf("data[1].kind = %v, want %q", second["kind"], "liability")
	}
}

// --- GET /api/balance-items/{id} テスト ---

func TestBalanceItemHandler_Get_Success(t *testing.T) {
	svc := &mockBalanceItemService{
		getFn: func(ctx context.Context, userID, itemID string) (*model.BalanceItem, error) {
			if itemID != "item-1" {
				t.Errorf("itemID = %q, want %q", itemID, "item-1")
			}
			return testBalanceItem(), nil
		},
	}
	h := NewBalanceItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/balance-items/item-1", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "item-1")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	result := parseSuccessResponse(t, w)
	data := dataObject(t, result)
	if data["name"] != "事業用普通預金" {
		t.Errorf("data.name = %v, want %q", data["name"], "事業用普通預金")
	}
}

func TestBalanceItemHandler_Get_NotFound_ReturnsNotFound(t *testing.T) {
	svc := &mockBalanceItemService{
		getFn: func(ctx context.Context, userID, itemID string) (*model.BalanceItem, error) {
			return nil, model.NewNotFoundError()
		},
	}
	h := NewBalanceItemHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/balance-items/unknown", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "unknown")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// --- PUT /api/balance-items/{id} テスト ---

func TestBalanceItemHandler_Update_Success(t *testing.T) {
	svc := &mockBalanceItemService{
		updateFn: func(ctx context.Context, userID, itemID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
			updated := testBalanceItem()
			updated.AmountCents = amountCents
			return updated, nil
		},
	}
	h := NewBalanceItemHandler(svc)

	body := `{"kind": "asset", "name": "事業用普通預金", "amount_cents": 1200000, "note": "みずほ銀行"}`
	req := httptest.NewRequest(http.MethodPut, "/api/balance-items/item-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "item-1")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	result := parseSuccessResponse(t, w)
	data := dataObject(t, result)
	if data["amount_cents"] != float64(1200000) {
		t.Errorf("data.amount_cents = %v, want 1200000", data["amount_cents"])
	}
}

func TestBalanceItemHandler_Update_NotFound_ReturnsNotFound(t *testing.T) {
	svc := &mockBalanceItemService{
		updateFn: func(ctx context.Context, userID, itemID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
			return nil, model.NewNotFoundError()
		},
	}
	h := NewBalanceItemHandler(svc)

	body := `{"kind": "asset", "name": "現金", "amount_cents": 1000}`
	req := httptest.NewRequest(http.MethodPut, "/api/balance-items/other-users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "other-users")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// --- DELETE /api/balance-items/{id} テスト ---

func TestBalanceItemHandler_Delete_Success_ReturnsNoContent(t *testing.T) {
	var deletedID string
	svc := &mockBalanceItemService{
		deleteFn: func(ctx context.Context, userID, itemID string) error {
			deletedID = itemID
			return nil
		},
	}
	h := NewBalanceItemHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/balance-items/item-1", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "item-1")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deletedID != "item-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "item-1")
	}
}

func TestBalanceItemHandler_Delete_NotFound_ReturnsNotFound(t *testing.T) {
	svc := &mockBalanceItemService{
		deleteFn: func(ctx context.Context, userID, itemID string) error {
			return model.NewNotFoundError()
		},
	}
	h := NewBalanceItemHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/balance-items/unknown", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "unknown")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}
