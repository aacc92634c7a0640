package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	SessionNotFound       failure.ErrorCode = "SessionNotFound"
	SessionNotRolled      failure.ErrorCode = "SessionNotRolled"
	NamesRequired         failure.ErrorCode = "NamesRequired"
	RarityNotSelected     failure.ErrorCode = "RarityNotSelected"
	InvalidSessionID      failure.ErrorCode = "InvalidSessionID"
	InvalidRarity         failure.ErrorCode = "InvalidRarity"
	InvalidManualDiscount failure.ErrorCode = "InvalidManualDiscount"
	InvalidPersuasionRoll failure.ErrorCode = "InvalidPersuasionRoll"
	InvalidDiscountTable  failure.ErrorCode = "InvalidDiscountTable"
	InvalidPaging         failure.ErrorCode = "InvalidPaging"
	NotificationFailed    failure.ErrorCode = "NotificationFailed"
	NotificationsDisabled failure.ErrorCode = "NotificationsDisabled"
	SaleLedgerUnavailable failure.ErrorCode = "SaleLedgerUnavailable"
)
