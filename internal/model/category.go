// Package model はドメインモデルを定義する。
package model

import "time"

// Category は取引の分類カテゴリを表す。
// ユーザーごとに(種別, 小文字正規化した名前)で一意。
// IsDefaultが真のカテゴリは登録時に自動生成されたもので、削除を拒否する。
type Category struct {
	ID        string
	UserID    string
	Name      string
	Type      TransactionType
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultCategoryNames は新規ユーザー登録時に自動生成するカテゴリ名の一覧。
// キーは取引種別、値はカテゴリ名のスライス。
var DefaultCategoryNames = map[TransactionType][]string{
	TransactionTypeIncome:  {"売上", "その他収入"},
	TransactionTypeExpense: {"仕入", "消耗品費", "交通費", "通信費", "雑費"},
}
