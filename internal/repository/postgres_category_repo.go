package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kicho/internal/model"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// Create はカテゴリを作成する。
// 同一ユーザー・同一種別内で名前が重複する場合はmodel.DuplicateCategoryErrorを返す。
func (r *PostgresCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		category.ID, category.UserID, category.Name, string(category.Type), category.IsDefault,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateCategoryError(category.Name)
		}
		return fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if isInvalidID(id) {
		return nil, nil
	}

	category := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, is_default, created_at, updated_at
		 FROM categories WHERE id = $1`,
		id,
	).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Type, &category.IsDefault,
		&category.CreatedAt, &category.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}

	return category, nil
}

// ListByUserID はユーザーのカテゴリ一覧を種別・名前順で返す。
// ctypeが空でない場合はその種別のみに絞り込む。
func (r *PostgresCategoryRepo) ListByUserID(ctx context.Context, userID string, ctype model.TransactionType) ([]*model.Category, error) {
	query := `SELECT id, user_id, name, type, is_default, created_at, updated_at
	          FROM categories WHERE user_id = $1`

	args := []interface{}{userID}

	if ctype != "" {
		query += " AND type = $2"
		args = append(args, string(ctype))
	}

	query += " ORDER BY type ASC, is_default DESC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		if err := rows.Scan(
			&category.ID, &category.UserID, &category.Name, &category.Type, &category.IsDefault,
			&category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("カテゴリ行の読み取りに失敗しました: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の走査に失敗しました: %w", err)
	}

	return categories, nil
}

// Update はカテゴリを上書き更新する。
// 名前が重複する場合はmodel.DuplicateCategoryErrorを返す。
func (r *PostgresCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`,
		category.ID, category.Name, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateCategoryError(category.Name)
		}
		return fmt.Errorf("カテゴリの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのカテゴリを削除する。
// 参照していた取引のcategory_idはNULLに戻る（ON DELETE SET NULL）。
func (r *PostgresCategoryRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("カテゴリが見つかりません: %s", id)
	}
	return nil
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
