// Package model はドメインモデルを定義する。
package model

import "time"

// BalanceItem は貸借対照表の1項目（資産または負債）を表す。
// 取引とは独立した残高スナップショットであり、複式簿記の整合性は要求しない。
type BalanceItem struct {
	ID          string
	UserID      string
	Kind        BalanceItemKind
	Name        string
	AmountCents int64
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BalanceItemKind は貸借対照表項目の区分を表す。
type BalanceItemKind string

const (
	// BalanceItemKindAsset は資産項目。
	BalanceItemKindAsset BalanceItemKind = "asset"
	// BalanceItemKindLiability は負債項目。
	BalanceItemKindLiability BalanceItemKind = "liability"
)

// IsValid は区分が定義済みの値であるかを返す。
func (k BalanceItemKind) IsValid() bool {
	return k == BalanceItemKindAsset || k == BalanceItemKindLiability
}
