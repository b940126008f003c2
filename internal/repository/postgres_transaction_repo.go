package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/kicho/internal/model"
)

// PostgresTransactionRepo はPostgreSQLを使用した取引リポジトリ。
type PostgresTransactionRepo struct {
	db *sql.DB
}

// NewPostgresTransactionRepo はPostgresTransactionRepoを生成する。
func NewPostgresTransactionRepo(db *sql.DB) *PostgresTransactionRepo {
	return &PostgresTransactionRepo{db: db}
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// monthRange は"YYYY-MM"形式の月文字列を[月初, 翌月初)の時刻範囲に変換する。
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("不正な月指定です: %q", month)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// Create は取引を作成する。
func (r *PostgresTransactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, amount_cents, description, category_id,
		                           occurred_at, customer_name, invoice_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tx.ID, tx.UserID, string(tx.Type), tx.AmountCents, tx.Description, nullString(tx.CategoryID),
		tx.OccurredAt, tx.CustomerName, tx.InvoiceNumber, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("取引の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの取引を取得する。見つからない場合はnilを返す。
func (r *PostgresTransactionRepo) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	if isInvalidID(id) {
		return nil, nil
	}

	tx := &model.Transaction{}
	var categoryID sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, amount_cents, description, category_id,
		        occurred_at, customer_name, invoice_number, created_at, updated_at
		 FROM transactions WHERE id = $1`,
		id,
	).Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.AmountCents, &tx.Description, &categoryID,
		&tx.OccurredAt, &tx.CustomerName, &tx.InvoiceNumber, &tx.CreatedAt, &tx.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("取引の取得に失敗しました: %w", err)
	}

	tx.CategoryID = nullStringValue(categoryID)

	return tx, nil
}

// ListByUserID はユーザーの取引一覧をoccurred_at降順で返す。
func (r *PostgresTransactionRepo) ListByUserID(ctx context.Context, userID string, filter TransactionFilter) ([]*model.Transaction, error) {
	query := `SELECT id, user_id, type, amount_cents, description, category_id,
	                 occurred_at, customer_name, invoice_number, created_at, updated_at
	          FROM transactions WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, string(filter.Type))
		argIndex++
	}

	if filter.Month != "" {
		start, end, err := monthRange(filter.Month)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND occurred_at >= $%d AND occurred_at < $%d", argIndex, argIndex+1)
		args = append(args, start, end)
		argIndex += 2
	}

	query += " ORDER BY occurred_at DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("取引一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var txs []*model.Transaction
	for rows.Next() {
		tx := &model.Transaction{}
		var categoryID sql.NullString

		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.AmountCents, &tx.Description, &categoryID,
			&tx.OccurredAt, &tx.CustomerName, &tx.InvoiceNumber, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("取引行の読み取りに失敗しました: %w", err)
		}

		tx.CategoryID = nullStringValue(categoryID)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("取引一覧の走査に失敗しました: %w", err)
	}

	return txs, nil
}

// Update は取引を上書き更新する。
func (r *PostgresTransactionRepo) Update(ctx context.Context, tx *model.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET
		    type = $2, amount_cents = $3, description = $4, category_id = $5,
		    occurred_at = $6, customer_name = $7, invoice_number = $8, updated_at = $9
		 WHERE id = $1`,
		tx.ID, string(tx.Type), tx.AmountCents, tx.Description, nullString(tx.CategoryID),
		tx.OccurredAt, tx.CustomerName, tx.InvoiceNumber, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("取引の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの取引を削除する。
func (r *PostgresTransactionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("取引の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("取引が見つかりません: %s", id)
	}
	return nil
}

// SumAmountCents はユーザーの取引金額合計を返す。該当取引がない場合は0を返す。
func (r *PostgresTransactionRepo) SumAmountCents(ctx context.Context, userID string, filter TransactionFilter) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, string(filter.Type))
		argIndex++
	}

	if filter.Month != "" {
		start, end, err := monthRange(filter.Month)
		if err != nil {
			return 0, err
		}
		query += fmt.Sprintf(" AND occurred_at >= $%d AND occurred_at < $%d", argIndex, argIndex+1)
		args = append(args, start, end)
		argIndex += 2
	}

	var sum int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("取引合計の取得に失敗しました: %w", err)
	}
	return sum, nil
}

// CountByUserID はユーザーの取引件数を返す。
func (r *PostgresTransactionRepo) CountByUserID(ctx context.Context, userID string, filter TransactionFilter) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, string(filter.Type))
		argIndex++
	}

	if filter.Month != "" {
		start, end, err := monthRange(filter.Month)
		if err != nil {
			return 0, err
		}
		query += fmt.Sprintf(" AND occurred_at >= $%d AND occurred_at < $%d", argIndex, argIndex+1)
		args = append(args, start, end)
		argIndex += 2
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("取引件数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// SumByCategory はユーザーのカテゴリ別取引合計を合計金額の降順で返す。
// カテゴリ未設定の取引はCategoryID空文字としてまとめられる。
func (r *PostgresTransactionRepo) SumByCategory(ctx context.Context, userID string, filter TransactionFilter) ([]CategoryTotal, error) {
	query := `SELECT COALESCE(t.category_id::text, ''), COALESCE(c.name, ''), SUM(t.amount_cents)
	          FROM transactions t
	          LEFT JOIN categories c ON t.category_id = c.id
	          WHERE t.user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if filter.Type != "" {
		query += fmt.Sprintf(" AND t.type = $%d", argIndex)
		args = append(args, string(filter.Type))
		argIndex++
	}

	if filter.Month != "" {
		start, end, err := monthRange(filter.Month)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND t.occurred_at >= $%d AND t.occurred_at < $%d", argIndex, argIndex+1)
		args = append(args, start, end)
		argIndex += 2
	}

	query += " GROUP BY t.category_id, c.name ORDER BY SUM(t.amount_cents) DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ別合計の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.TotalCents); err != nil {
			return nil, fmt.Errorf("カテゴリ別合計行の読み取りに失敗しました: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリ別合計の走査に失敗しました: %w", err)
	}

	return totals, nil
}

// compile-time interface check
var _ TransactionRepository = (*PostgresTransactionRepo)(nil)
