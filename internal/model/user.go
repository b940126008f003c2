// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Emailは登録時に小文字へ正規化され、正規化後の値で一意性が保証される。
// PasswordHashはbcryptダイジェストであり、平文は一切保持しない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
