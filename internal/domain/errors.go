// Package domain は業務エラーの種別を定義する。
// ハンドラ層がここの種別をHTTPステータスへ変換する。
package domain

import (
	"errors"
	"fmt"
)

var (
	// カートが空のまま注文確定しようとした
	ErrEmptyCart = errors.New("cart is empty")

	// 注文が存在しない、または他人の注文（存在は漏らさない）
	ErrOrderNotFound = errors.New("order not found")

	// 所有者でも管理者でもない操作
	ErrForbidden = errors.New("forbidden")

	// 登録済みメールアドレス
	ErrEmailTaken = errors.New("email already registered")

	// メール・パスワード不一致（どちらが違うかは返さない）
	ErrInvalidCredentials = errors.New("invalid credentials")

	// slugまたはproduct_idの重複
	ErrProductConflict = errors.New("product already exists")

	// カタログに該当なし
	ErrProductNotFound = errors.New("product not found")
)

// 商品が注文に使えない理由
type UnavailableReason string

const (
	ReasonNotFound              UnavailableReason = "not found"
	ReasonInactive              UnavailableReason = "inactive"
	ReasonInsufficientInventory UnavailableReason = "insufficient inventory"
)

// チェックアウト時に商品が利用不可だったことを表す。
// ProductIDは業務ID（カートが参照しているID）。
type ProductUnavailableError struct {
	ProductID int64
	Reason    UnavailableReason
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d unavailable: %s", e.ProductID, e.Reason)
}

// errors.Isで種別一致を判定できるようにする
func (e *ProductUnavailableError) Is(target error) bool {
	_, ok := target.(*ProductUnavailableError)
	return ok
}

// 入力値の業務的な不正（数量0以下など）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
