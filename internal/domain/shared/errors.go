package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrIllegalArgument marks a broken internal contract, such as projecting a
// transaction from the perspective of an account that took no part in it.
// It is never reported to clients as a user error.
var ErrIllegalArgument = errors.New("illegal argument")

// Category groups error kinds by how a boundary layer should report them.
type Category string

const (
	CategoryUnknown    Category = "UNKNOWN"
	CategoryValidation Category = "VALIDATION"
	CategoryNotFound   Category = "NOT_FOUND"
	CategoryLogicError Category = "LOGIC_ERROR"
)

// Kind identifies a ledger failure. The numeric value is the public error code.
type Kind int

const (
	KindUnknown           Kind = -1
	KindValidation        Kind = 0
	KindMissingParam      Kind = 1
	KindMissingField      Kind = 2
	KindMalformedPin      Kind = 3
	KindWrongPin          Kind = 4
	KindLoopbackTransfer  Kind = 5
	KindNotFound          Kind = 100
	KindAccountNotFound   Kind = 101
	KindPayerNotFound     Kind = 102
	KindPayeeNotFound     Kind = 103
	KindLogicError        Kind = 200
	KindInsufficientFunds Kind = 201
)

var kindNames = map[Kind]string{
	KindUnknown:           "UNKNOWN",
	KindValidation:        "VALIDATION",
	KindMissingParam:      "MISSING_PARAM",
	KindMissingField:      "MISSING_FIELD",
	KindMalformedPin:      "MALFORMED_PIN",
	KindWrongPin:          "WRONG_PIN",
	KindLoopbackTransfer:  "LOOPBACK_TRANSFER",
	KindNotFound:          "NOT_FOUND",
	KindAccountNotFound:   "ACCOUNT_NOT_FOUND",
	KindPayerNotFound:     "PAYER_NOT_FOUND",
	KindPayeeNotFound:     "PAYEE_NOT_FOUND",
	KindLogicError:        "LOGIC_ERROR",
	KindInsufficientFunds: "INSUFFICIENT_FUNDS",
}

// Code returns the numeric error code exposed to clients.
func (k Kind) Code() int {
	return int(k)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Category derives the category from the code range.
func (k Kind) Category() Category {
	switch {
	case k >= KindValidation && k < KindNotFound:
		return CategoryValidation
	case k >= KindNotFound && k < KindLogicError:
		return CategoryNotFound
	case k >= KindLogicError && k < 300:
		return CategoryLogicError
	default:
		return CategoryUnknown
	}
}

// HTTPStatus maps every kind to exactly one transport status.
func (k Kind) HTTPStatus() int {
	switch k.Category() {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryLogicError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed ledger failure carrying a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the Err* values below work as
// sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrUnknown           = &Error{Kind: KindUnknown}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrMissingParam      = &Error{Kind: KindMissingParam}
	ErrMissingField      = &Error{Kind: KindMissingField}
	ErrMalformedPin      = &Error{Kind: KindMalformedPin}
	ErrWrongPin          = &Error{Kind: KindWrongPin}
	ErrLoopbackTransfer  = &Error{Kind: KindLoopbackTransfer}
	ErrAccountNotFound   = &Error{Kind: KindAccountNotFound}
	ErrPayerNotFound     = &Error{Kind: KindPayerNotFound}
	ErrPayeeNotFound     = &Error{Kind: KindPayeeNotFound}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
)

// KindOf reports the kind of err. Errors outside the taxonomy are Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// AsError returns err as a typed ledger error, wrapping foreign errors as Unknown.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewUnknown(err)
}

func NewUnknown(err error) *Error {
	msg := "An unexpected error occurred."
	if err != nil {
		msg = fmt.Sprintf("An unexpected error occurred: %v", err)
	}
	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewMissingParam(name string) *Error {
	return &Error{Kind: KindMissingParam, Message: fmt.Sprintf("Missing %s parameter.", name)}
}

func NewMissingField(name string) *Error {
	return &Error{Kind: KindMissingField, Message: fmt.Sprintf("Missing %s field.", name)}
}

func NewMalformedPin(pin string) *Error {
	return &Error{
		Kind:    KindMalformedPin,
		Message: fmt.Sprintf("The pin must be a string containing exactly 4 numeric digits (provided: %s).", pin),
	}
}

func NewWrongPin(accountID int64, pin string) *Error {
	return &Error{
		Kind:    KindWrongPin,
		Message: fmt.Sprintf("The pin provided for account number %d is wrong (provided: %q)", accountID, pin),
	}
}

func NewLoopbackTransfer(accountID int64) *Error {
	return &Error{
		Kind:    KindLoopbackTransfer,
		Message: fmt.Sprintf("Invalid transaction: unable to perform a transfer to the same account (number: %d).", accountID),
	}
}

func NewAccountNotFound(accountID int64) *Error {
	return &Error{Kind: KindAccountNotFound, Message: fmt.Sprintf("Account with number %d not found", accountID)}
}

func NewPayerNotFound(accountID int64) *Error {
	return &Error{Kind: KindPayerNotFound, Message: fmt.Sprintf("Payer account with number %d not found", accountID)}
}

func NewPayeeNotFound(accountID int64) *Error {
	return &Error{Kind: KindPayeeNotFound, Message: fmt.Sprintf("Payee account with number %d not found", accountID)}
}

// NewInsufficientFunds takes already formatted amounts so the message matches
// what the client sees elsewhere.
func NewInsufficientFunds(accountID int64, required, available string) *Error {
	return &Error{
		Kind: KindInsufficientFunds,
		Message: fmt.Sprintf(
			"Account number %d does not have enough money to complete the transaction (required: %s | available %s).",
			accountID, required, available,
		),
	}
}

func NewNonPositiveAmount(amount string) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("The amount must be greater than zero (provided: %s).", amount)}
}

// NewInvalidField quotes string values, so an empty string stays visible.
func NewInvalidField(field string, value any) *Error {
	if s, ok := value.(string); ok {
		return &Error{Kind: KindValidation, Message: fmt.Sprintf("Invalid %q value for field %s", s, field)}
	}
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("Invalid %v value for field %s", value, field)}
}
