// Package balanceitem は貸借対照表項目のドメインロジックを提供する。
package balanceitem

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/kicho/internal/model"
	"github.com/hitoshi/kicho/internal/repository"
	"github.com/hitoshi/kicho/internal/security"
)

// maxNameLength は項目名の最大文字数。
const maxNameLength = 100

// Service は貸借対照表項目のサービス層。
// 資産・負債項目の作成・一覧・取得・更新・削除を認証済みユーザーのスコープで提供する。
type Service struct {
	balanceItemRepo repository.BalanceItemRepository
	sanitizer       security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(balanceItemRepo repository.BalanceItemRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		balanceItemRepo: balanceItemRepo,
		sanitizer:       sanitizer,
	}
}

// Create は貸借項目を作成する。
// 項目名と備考はサニタイズしてから検証する。金額は0を許容する。
func (s *Service) Create(ctx context.Context, userID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
	name = s.sanitizer.Sanitize(name)
	note = s.sanitizer.Sanitize(note)

	if err := validateItem(kind, name, amountCents); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.BalanceItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		Kind:        kind,
		Name:        name,
		AmountCents: amountCents,
		Note:        note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.balanceItemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("貸借項目の作成に失敗しました: %w", err)
	}

	return item, nil
}

// List はユーザーの貸借項目一覧をcreated_at昇順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.BalanceItem, error) {
	items, err := s.balanceItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("貸借項目一覧の取得に失敗しました: %w", err)
	}

	return items, nil
}

// Get は貸借項目を1件取得する。
// 存在しないIDと他ユーザー所有のIDは同じnot foundとして扱う。
func (s *Service) Get(ctx context.Context, userID, itemID string) (*model.BalanceItem, error) {
	item, err := s.balanceItemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("貸借項目の取得に失敗しました: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, model.NewNotFoundError()
	}

	return item, nil
}

// Update は貸借項目を更新する。
// 全フィールドを再検証・再サニタイズし、updated_atを更新する。
func (s *Service) Update(ctx context.Context, userID, itemID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error) {
	item, err := s.balanceItemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("貸借項目の取得に失敗しました: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, model.NewNotFoundError()
	}

	name = s.sanitizer.Sanitize(name)
	note = s.sanitizer.Sanitize(note)

	if err := validateItem(kind, name, amountCents); err != nil {
		return nil, err
	}

	item.Kind = kind
	item.Name = name
	item.AmountCents = amountCents
	item.Note = note
	item.UpdatedAt = time.Now()

	if err := s.balanceItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("貸借項目の更新に失敗しました: %w", err)
	}

	return item, nil
}

// Delete は貸借項目を削除する。
// 存在しないIDと他ユーザー所有のIDは同じnot foundとして扱う。
func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	item, err := s.balanceItemRepo.FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("貸借項目の取得に失敗しました: %w", err)
	}
	if item == nil || item.UserID != userID {
		return model.NewNotFoundError()
	}

	if err := s.balanceItemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("貸借項目の削除に失敗しました: %w", err)
	}

	return nil
}

// validateItem はサニタイズ済みの貸借項目フィールドを検証する。
func validateItem(kind model.BalanceItemKind, name string, amountCents int64) error {
	if !kind.IsValid() {
		return model.NewValidationError("区分はassetまたはliabilityを指定してください")
	}
	if name == "" {
		return model.NewValidationError("項目名を入力してください")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return model.NewValidationError(fmt.Sprintf("項目名は%d文字以内で入力してください", maxNameLength))
	}
	if amountCents < 0 {
		return model.NewValidationError("金額は0以上で指定してください")
	}
	return nil
}
