// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/kicho/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// email重複の場合はmodel.DuplicateEmailErrorを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	// emailは小文字に正規化してから検索する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TransactionFilter は取引一覧・集計の絞り込み条件。
// ゼロ値のフィールドは条件として適用されない。
type TransactionFilter struct {
	// Type は取引種別（income/expense）。空なら全種別。
	Type model.TransactionType
	// Month は対象月（"YYYY-MM"形式）。空なら全期間。
	Month string
}

// TransactionRepository は取引データの永続化インターフェース。
type TransactionRepository interface {
	// Create は取引を作成する。
	Create(ctx context.Context, tx *model.Transaction) error

	// FindByID は指定IDの取引を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Transaction, error)

	// ListByUserID はユーザーの取引一覧をoccurred_at降順で返す。
	ListByUserID(ctx context.Context, userID string, filter TransactionFilter) ([]*model.Transaction, error)

	// Update は取引を上書き更新する。
	Update(ctx context.Context, tx *model.Transaction) error

	// Delete は指定IDの取引を削除する。
	Delete(ctx context.Context, id string) error

	// SumAmountCents はユーザーの取引金額合計を返す。該当取引がない場合は0を返す。
	SumAmountCents(ctx context.Context, userID string, filter TransactionFilter) (int64, error)

	// CountByUserID はユーザーの取引件数を返す。
	CountByUserID(ctx context.Context, userID string, filter TransactionFilter) (int, error)

	// SumByCategory はユーザーのカテゴリ別取引合計を合計金額の降順で返す。
	// カテゴリ未設定の取引はCategoryID空文字としてまとめられる。
	SumByCategory(ctx context.Context, userID string, filter TransactionFilter) ([]CategoryTotal, error)
}

// BalanceItemRepository は貸借項目データの永続化インターフェース。
type BalanceItemRepository interface {
	// Create は貸借項目を作成する。
	Create(ctx context.Context, item *model.BalanceItem) error

	// FindByID は指定IDの貸借項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.BalanceItem, error)

	// ListByUserID はユーザーの貸借項目一覧をcreated_at昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.BalanceItem, error)

	// Update は貸借項目を上書き更新する。
	Update(ctx context.Context, item *model.BalanceItem) error

	// Delete は指定IDの貸借項目を削除する。
	Delete(ctx context.Context, id string) error

	// SumAmountCentsByKind はユーザーの種別ごとの金額合計を返す。該当項目がない場合は0を返す。
	SumAmountCentsByKind(ctx context.Context, userID string, kind model.BalanceItemKind) (int64, error)
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// Create はカテゴリを作成する。
	// 同一ユーザー・同一種別内で名前が重複する場合はmodel.DuplicateCategoryErrorを返す。
	Create(ctx context.Context, category *model.Category) error

	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// ListByUserID はユーザーのカテゴリ一覧を返す。
	// ctypeが空でない場合はその種別のみに絞り込む。
	ListByUserID(ctx context.Context, userID string, ctype model.TransactionType) ([]*model.Category, error)

	// Update はカテゴリを上書き更新する。
	// 名前が重複する場合はmodel.DuplicateCategoryErrorを返す。
	Update(ctx context.Context, category *model.Category) error

	// Delete は指定IDのカテゴリを削除する。
	// 参照していた取引のcategory_idはNULLに戻る（ON DELETE SET NULL）。
	Delete(ctx context.Context, id string) error
}

// CategoryTotal はカテゴリ別の取引合計。
// カテゴリ未設定の取引はCategoryID・CategoryNameとも空文字で表す。
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	TotalCents   int64
}
