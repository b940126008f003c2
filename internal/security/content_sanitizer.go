// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は取引の摘要や貸借項目のメモなどの自由入力テキストを
// プレーンテキストに正規化し、格納値へのHTML混入を防ぐ。
// bluemondayライブラリのStrictPolicyですべてのタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は自由入力テキストのサニタイズ機能のインターフェースを定義する。
// 取引の摘要、貸借項目の名前・メモ、カテゴリ名の保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去し、前後の空白を取り除いて返す。
	// scriptタグとstyleタグは内容ごと除去される。
	// 特殊文字（& < > 等）はHTMLエンティティとして保持される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// タグを一切許可しないStrictPolicyを使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
