// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// Codeが安定した契約であり、MessageとActionは表示用の文言にすぎない。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, resource, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeDuplicateCategory = "DUPLICATE_CATEGORY"
	ErrCodeDefaultCategory   = "DEFAULT_CATEGORY"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
// reasonには不正だった内容を表示用の文言で指定する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容が正しくありません: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewDuplicateEmailError は登録済みメールアドレスの重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewDuplicateCategoryError は同名カテゴリの重複エラーを生成する。
func NewDuplicateCategoryError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateCategory,
		Message:  fmt.Sprintf("同じ名前のカテゴリが既に存在します: %s", name),
		Category: "validation",
		Action:   "別のカテゴリ名を指定してください。",
	}
}

// NewDefaultCategoryError は既定カテゴリの削除拒否エラーを生成する。
func NewDefaultCategoryError() *APIError {
	return &APIError{
		Code:     ErrCodeDefaultCategory,
		Message:  "既定カテゴリは削除できません。",
		Category: "validation",
		Action:   "既定カテゴリ以外のカテゴリを選択してください。",
	}
}

// NewUnauthorizedError は認証エラーを生成する。
// トークン不正・期限切れ・ユーザー不存在のいずれでも同一の文言を返し、
// クライアントに失敗原因を区別させない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
// 存在しない場合と他ユーザー所有の場合で同一のエラーを返し、
// 他ユーザーのデータの存在を推測させない。
func NewNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  "指定されたリソースが見つかりません。",
		Category: "resource",
		Action:   "IDを確認してください。",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、クライアントには一般的な文言だけを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
