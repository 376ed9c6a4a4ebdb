// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザーが入力するプロフィール項目や
// アップロード説明文をサニタイズし、XSS攻撃などの
// セキュリティリスクから保護する。
// bluemondayライブラリのStrictPolicyを使用し、
// HTMLタグを一切許可しないプレーンテキストとして扱う。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はユーザー入力のサニタイズ機能のインターフェースを定義する。
// プロフィール更新およびアップロード説明文の保存前に使用される。
type InputSanitizerService interface {
	// Sanitize はユーザー入力から全てのHTMLタグを除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全てのHTMLタグと属性を除去する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はユーザー入力をサニタイズしてプレーンテキストを返す。
// bluemondayはタグ除去後にHTMLエンティティへエスケープするため、
// 保存用のプレーンテキストに戻してから返す。
func (s *inputSanitizer) Sanitize(raw string) string {
	cleaned := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
