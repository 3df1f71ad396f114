package services

import "errors"

// 各層で共通のセンチネルエラー
var (
	ErrClassifier   = errors.New("classifier failure")
	ErrParse        = errors.New("malformed classifier response")
	ErrStore        = errors.New("ledger store failure")
	ErrInvalidInput = errors.New("invalid input")
)
