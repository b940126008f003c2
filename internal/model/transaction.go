// Package model はドメインモデルを定義する。
package model

import "time"

// Transaction は収入または支出の取引記録を表す。
// 金額は浮動小数点誤差を避けるためセント（最小通貨単位）のint64で保持する。
// CustomerNameとInvoiceNumberは収入取引のみが持つフィールドで、
// NewIncomeTransaction経由でのみ設定される（支出取引では常に空）。
type Transaction struct {
	ID            string
	UserID        string
	Type          TransactionType
	AmountCents   int64
	Description   string
	CategoryID    string // 任意。設定時は同一ユーザー所有かつ同種別のカテゴリ
	OccurredAt    time.Time
	CustomerName  string // 収入のみ
	InvoiceNumber string // 収入のみ
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionType は取引の種別を表す。
type TransactionType string

const (
	// TransactionTypeIncome は収入取引。
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense は支出取引。
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid は取引種別が定義済みの値であるかを返す。
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// NewIncomeTransaction は収入取引を生成する。
// 顧客名と請求書番号は収入取引の必須項目としてここでのみ受け取る。
func NewIncomeTransaction(userID string, amountCents int64, description, customerName, invoiceNumber string, occurredAt time.Time) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeIncome,
		AmountCents:   amountCents,
		Description:   description,
		CustomerName:  customerName,
		InvoiceNumber: invoiceNumber,
		OccurredAt:    occurredAt,
	}
}

// NewExpenseTransaction は支出取引を生成する。
// 支出取引は顧客名・請求書番号を持たない。
func NewExpenseTransaction(userID string, amountCents int64, description string, occurredAt time.Time) *Transaction {
	return &Transaction{
		UserID:      userID,
		Type:        TransactionTypeExpense,
		AmountCents: amountCents,
		Description: description,
		OccurredAt:  occurredAt,
	}
}
