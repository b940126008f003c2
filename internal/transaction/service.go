// Package transaction は収支取引のドメインロジックを提供する。
package transaction

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

const (
	// maxDescriptionLength は摘要の最大文字数。
	maxDescriptionLength = 200
	// maxCustomerNameLength は顧客名の最大文字数。
	maxCustomerNameLength = 100
	// maxInvoiceNumberLength は請求書番号の最大文字数。
	maxInvoiceNumberLength = 50
)

// Service は収支取引のサービス層。
// 取引の作成・一覧・取得・更新・削除を認証済みユーザーのスコープで提供する。
// 収入取引と支出取引は生成経路を分け、顧客名・請求書番号は収入のみが持つ。
type Service struct {
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
	sanitizer       security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(transactionRepo repository.TransactionRepository, categoryRepo repository.CategoryRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		sanitizer:       sanitizer,
	}
}

// CreateIncome は収入取引を作成する。
// 顧客名と請求書番号は収入取引の必須項目。
// categoryIDが空でない場合は本人所有かつ収入種別のカテゴリであることを確認する。
func (s *Service) CreateIncome(ctx context.Context, userID string, amountCents int64, description, customerName, invoiceNumber, categoryID string, occurredAt time.Time) (*model.Transaction, error) {
	description = s.sanitizer.Sanitize(description)
	customerName = s.sanitizer.Sanitize(customerName)
	invoiceNumber = s.sanitizer.Sanitize(invoiceNumber)

	if err := validateCommon(amountCents, description, occurredAt); err != nil {
		return nil, err
	}
	if err := validateIncomeFields(customerName, invoiceNumber); err != nil {
		return nil, err
	}
	if categoryID != "" {
		if err := s.verifyCategoryLink(ctx, userID, categoryID, model.TransactionTypeIncome); err != nil {
			return nil, err
		}
	}

	tx := model.NewIncomeTransaction(userID, amountCents, description, customerName, invoiceNumber, occurredAt)
	tx.ID = uuid.New().String()
	tx.CategoryID = categoryID
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("取引の作成に失敗しました: %w", err)
	}

	slog.Info("transaction created",
		slog.String("user_id", userID),
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
	)

	return tx, nil
}

// CreateExpense は支出取引を作成する。
// 支出取引は顧客名・請求書番号を受け取らない。
// categoryIDが空でない場合は本人所有かつ支出種別のカテゴリであることを確認する。
func (s *Service) CreateExpense(ctx context.Context, userID string, amountCents int64, description, categoryID string, occurredAt time.Time) (*model.Transaction, error) {
	description = s.sanitizer.Sanitize(description)

	if err := validateCommon(amountCents, description, occurredAt); err != nil {
		return nil, err
	}
	if categoryID != "" {
		if err := s.verifyCategoryLink(ctx, userID, categoryID, model.TransactionTypeExpense); err != nil {
			return nil, err
		}
	}

	tx := model.NewExpenseTransaction(userID, amountCents, description, occurredAt)
	tx.ID = uuid.New().String()
	tx.CategoryID = categoryID
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("取引の作成に失敗しました: %w", err)
	}

	slog.Info("transaction created",
		slog.String("user_id", userID),
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
	)

	return tx, nil
}

// List はユーザーの取引一覧をoccurred_at降順で返す。
// filterのTypeとMonthは指定時のみ検証・適用する。
func (s *Service) List(ctx context.Context, userID string, filter repository.TransactionFilter) ([]*model.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	txs, err := s.transactionRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("取引一覧の取得に失敗しました: %w", err)
	}

	return txs, nil
}

// Get は取引を1件取得する。
// 存在しないIDと他ユーザー所有のIDは同じnot foundとして扱う。
func (s *Service) Get(ctx context.Context, userID, transactionID string) (*model.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("取引の取得に失敗しました: %w", err)
	}
	if tx == nil || tx.UserID != userID {
		return nil, model.NewNotFoundError()
	}

	return tx, nil
}

// Update は取引を更新する。取引種別は変更できない。
// 全フィールドを再検証・再サニタイズし、updated_atを更新する。
// 支出取引への顧客名・請求書番号の指定はエラーになる。
func (s *Service) Update(ctx context.Context, userID, transactionID string, amountCents int64, description, customerName, invoiceNumber, categoryID string, occurredAt time.Time) (*model.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("取引の取得に失敗しました: %w", err)
	}
	if tx == nil || tx.UserID != userID {
		return nil, model.NewNotFoundError()
	}

	description = s.sanitizer.Sanitize(description)
	customerName = s.sanitizer.Sanitize(customerName)
	invoiceNumber = s.sanitizer.Sanitize(invoiceNumber)

	if err := validateCommon(amountCents, description, occurredAt); err != nil {
		return nil, err
	}
	switch tx.Type {
	case model.TransactionTypeIncome:
		if err := validateIncomeFields(customerName, invoiceNumber); err != nil {
			return nil, err
		}
	case model.TransactionTypeExpense:
		if customerName != "" || invoiceNumber != "" {
			return nil, model.NewValidationError("支出取引に顧客名・請求書番号は設定できません")
		}
	}
	if categoryID != "" {
		if err := s.verifyCategoryLink(ctx, userID, categoryID, tx.Type); err != nil {
			return nil, err
		}
	}

	tx.AmountCents = amountCents
	tx.Description = description
	tx.CustomerName = customerName
	tx.InvoiceNumber = invoiceNumber
	tx.CategoryID = categoryID
	tx.OccurredAt = occurredAt
	tx.UpdatedAt = time.Now()

	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("取引の更新に失敗しました: %w", err)
	}

	return tx, nil
}

// Delete は取引を削除する。
// 存在しないIDと他ユーザー所有のIDは同じnot foundとして扱う。
func (s *Service) Delete(ctx context.Context, userID, transactionID string) error {
	tx, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("取引の取得に失敗しました: %w", err)
	}
	if tx == nil || tx.UserID != userID {
		return model.NewNotFoundError()
	}

	if err := s.transactionRepo.Delete(ctx, transactionID); err != nil {
		return fmt.Errorf("取引の削除に失敗しました: %w", err)
	}

	slog.Info("transaction deleted",
		slog.String("user_id", userID),
		slog.String("transaction_id", transactionID),
	)

	return nil
}

// verifyCategoryLink はカテゴリとの紐付けを検証する。
// 存在しないカテゴリと他ユーザー所有のカテゴリは同じ検証エラーとして扱う。
func (s *Service) verifyCategoryLink(ctx context.Context, userID, categoryID string, txType model.TransactionType) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil || category.UserID != userID {
		return model.NewValidationError("指定されたカテゴリが存在しません")
	}
	if category.Type != txType {
		return model.NewValidationError("カテゴリの種別が取引の種別と一致しません")
	}
	return nil
}

// validateCommon は全取引共通のフィールドを検証する。
func validateCommon(amountCents int64, description string, occurredAt time.Time) error {
	if amountCents <= 0 {
		return model.NewValidationError("金額は1以上で指定してください")
	}
	if description == "" {
		return model.NewValidationError("摘要を入力してください")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return model.NewValidationError(fmt.Sprintf("摘要は%d文字以内で入力してください", maxDescriptionLength))
	}
	if occurredAt.IsZero() {
		return model.NewValidationError("取引日を指定してください")
	}
	return nil
}

// validateIncomeFields は収入取引の必須フィールドを検証する。
func validateIncomeFields(customerName, invoiceNumber string) error {
	if customerName == "" {
		return model.NewValidationError("顧客名を入力してください")
	}
	if utf8.RuneCountInString(customerName) > maxCustomerNameLength {
		return model.NewValidationError(fmt.Sprintf("顧客名は%d文字以内で入力してください", maxCustomerNameLength))
	}
	if invoiceNumber == "" {
		return model.NewValidationError("請求書番号を入力してください")
	}
	if utf8.RuneCountInString(invoiceNumber) > maxInvoiceNumberLength {
		return model.NewValidationError(fmt.Sprintf("請求書番号は%d文字以内で入力してください", maxInvoiceNumberLength))
	}
	return nil
}

// validateFilter は一覧・集計の絞り込み条件を検証する。
func validateFilter(filter repository.TransactionFilter) error {
	if filter.Type != "" && !filter.Type.IsValid() {
		return model.NewValidationError("取引種別はincomeまたはexpenseを指定してください")
	}
	if filter.Month != "" {
		if _, err := time.Parse("2006-01", filter.Month); err != nil {
			return model.NewValidationError("月はYYYY-MM形式で指定してください")
		}
	}
	return nil
}
