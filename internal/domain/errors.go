package domain

import "errors"

var (
	// Manual ledger errors
	ErrRecordNotFound  = errors.New("manual record not found")
	ErrNotManualRecord = errors.New("record is not manually entered")
	ErrUnknownKind     = errors.New("unknown transaction kind")
	ErrInvalidSymbol   = errors.New("symbol must not be empty")
	ErrInvalidQuantity = errors.New("quantity must not be zero")

	// Connection errors
	ErrConnectionNotFound  = errors.New("exchange connection not found")
	ErrDuplicateConnection = errors.New("connection for this exchange already exists")
	ErrUnsupportedExchange = errors.New("exchange integration not implemented")

	// Price alert errors
	ErrAlertNotFound         = errors.New("price alert not found")
	ErrUnknownAlertCondition = errors.New("unknown alert condition")
	ErrInvalidTargetPrice    = errors.New("target price must be positive")
)
