package models

import (
	"errors"
)

// サービス層が返すエラーの分類。ハンドラー側でerrors.Isで判定し
// HTTPステータスに変換します。
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrInvalidState  = errors.New("invalid state")
)
