package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kicho/internal/model"
)

// PostgresBalanceItemRepo はPostgreSQLを使用した貸借項目リポジトリ。
type PostgresBalanceItemRepo struct {
	db *sql.DB
}

// NewPostgresBalanceItemRepo はPostgresBalanceItemRepoを生成する。
func NewPostgresBalanceItemRepo(db *sql.DB) *PostgresBalanceItemRepo {
	return &PostgresBalanceItemRepo{db: db}
}

// Create は貸借項目を作成する。
func (r *PostgresBalanceItemRepo) Create(ctx context.Context, item *model.BalanceItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO balance_items (id, user_id, kind, name, amount_cents, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.UserID, string(item.Kind), item.Name, item.AmountCents, item.Note,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("貸借項目の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの貸借項目を取得する。見つからない場合はnilを返す。
func (r *PostgresBalanceItemRepo) FindByID(ctx context.Context, id string) (*model.BalanceItem, error) {
	if isInvalidID(id) {
		return nil, nil
	}

	item := &model.BalanceItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, name, amount_cents, note, created_at, updated_at
		 FROM balance_items WHERE id = $1`,
		id,
	).Scan(
		&item.ID, &item.UserID, &item.Kind, &item.Name, &item.AmountCents, &item.Note,
		&item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("貸借項目の取得に失敗しました: %w", err)
	}

	return item, nil
}

// ListByUserID はユーザーの貸借項目一覧をcreated_at昇順で返す。
func (r *PostgresBalanceItemRepo) ListByUserID(ctx context.Context, userID string) ([]*model.BalanceItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, name, amount_cents, note, created_at, updated_at
		 FROM balance_items WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("貸借項目一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []*model.BalanceItem
	for rows.Next() {
		item := &model.BalanceItem{}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Kind, &item.Name, &item.AmountCents, &item.Note,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("貸借項目行の読み取りに失敗しました: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("貸借項目一覧の走査に失敗しました: %w", err)
	}

	return items, nil
}

// Update は貸借項目を上書き更新する。
func (r *PostgresBalanceItemRepo) Update(ctx context.Context, item *model.BalanceItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE balance_items SET
		    kind = $2, name = $3, amount_cents = $4, note = $5, updated_at = $6
		 WHERE id = $1`,
		item.ID, string(item.Kind), item.Name, item.AmountCents, item.Note, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("貸借項目の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの貸借項目を削除する。
func (r *PostgresBalanceItemRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM balance_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("貸借項目の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("貸借項目が見つかりません: %s", id)
	}
	return nil
}

// SumAmountCentsByKind はユーザーの種別ごとの金額合計を返す。該当項目がない場合は0を返す。
func (r *PostgresBalanceItemRepo) SumAmountCentsByKind(ctx context.Context, userID string, kind model.BalanceItemKind) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM balance_items WHERE user_id = $1 AND kind = $2`,
		userID, string(kind),
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("貸借項目合計の取得に失敗しました: %w", err)
	}
	return sum, nil
}

// compile-time interface check
var _ BalanceItemRepository = (*PostgresBalanceItemRepo)(nil)
