// Package category はカテゴリ管理のドメインロジックを提供する。
package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/kicho/internal/model"
	"github.com/hitoshi/kicho/internal/repository"
	"github.com/hitoshi/kicho/internal/security"
)

// maxNameLength はカテゴリ名の最大文字数。
const maxNameLength = 50

// Service はカテゴリ管理のサービス層。
// カテゴリの作成・一覧・改名・削除と、新規ユーザーへの既定カテゴリ投入を提供する。
type Service struct {
	categoryRepo repository.CategoryRepository
	sanitizer    security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(categoryRepo repository.CategoryRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		sanitizer:    sanitizer,
	}
}

// Create はユーザーのカテゴリを作成する。
// 名前はサニタイズしてから検証し、同一ユーザー・同一種別内での重複は
// リポジトリが返すmodel.DuplicateCategoryErrorをそのまま返す。
func (s *Service) Create(ctx context.Context, userID, name string, categoryType model.TransactionType) (*model.Category, error) {
	name = s.sanitizer.Sanitize(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !categoryType.IsValid() {
		return nil, model.NewValidationError("取引種別はincomeまたはexpenseを指定してください")
	}

	now := time.Now()
	category := &model.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		IsDefault: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// List はユーザーのカテゴリ一覧を返す。
// categoryTypeが空でない場合はその種別のみに絞り込む。
func (s *Service) List(ctx context.Context, userID string, categoryType model.TransactionType) ([]*model.Category, error) {
	if categoryType != "" && !categoryType.IsValid() {
		return nil, model.NewValidationError("取引種別はincomeまたはexpenseを指定してください")
	}

	categories, err := s.categoryRepo.ListByUserID(ctx, userID, categoryType)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}

	return categories, nil
}

// Rename はカテゴリの名前を変更する。
// 既定カテゴリも改名できる。
func (s *Service) Rename(ctx context.Context, userID, categoryID, name string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil || category.UserID != userID {
		return nil, model.NewNotFoundError()
	}

	name = s.sanitizer.Sanitize(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete はカテゴリを削除する。
// 既定カテゴリの削除は所有者にかかわらず拒否する。
// 削除したカテゴリを参照していた取引はカテゴリ未設定に戻る。
func (s *Service) Delete(ctx context.Context, userID, categoryID string) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil {
		return model.NewNotFoundError()
	}

	// 既定カテゴリの削除拒否は所有者チェックより先に判定する
	if category.IsDefault {
		return model.NewDefaultCategoryError()
	}

	if category.UserID != userID {
		return model.NewNotFoundError()
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}

	return nil
}

// SeedDefaults は新規ユーザーの既定カテゴリを作成する。
// ユーザー登録直後に一度だけ呼ばれる。
func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	now := time.Now()

	for categoryType, names := range model.DefaultCategoryNames {
		for _, name := range names {
			category := &model.Category{
				ID:        uuid.New().String(),
				UserID:    userID,
				Name:      name,
				Type:      categoryType,
				IsDefault: true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.categoryRepo.Create(ctx, category); err != nil {
				return fmt.Errorf("既定カテゴリの作成に失敗しました: %w", err)
			}
		}
	}

	slog.Info("default categories seeded",
		slog.String("user_id", userID),
	)

	return nil
}

// validateName はサニタイズ済みのカテゴリ名を検証する。
func validateName(name string) error {
	if name == "" {
		return model.NewValidationError("カテゴリ名を入力してください")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return model.NewValidationError(fmt.Sprintf("カテゴリ名は%d文字以内で入力してください", maxNameLength))
	}
	return nil
}
