package shared

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PinPattern is the only accepted PIN shape: exactly four ASCII digits.
var PinPattern = regexp.MustCompile(`^\d{4}$`)

var (
	ErrPinFormat   = validation.NewError("validation_pin_format", "must contain exactly 4 numeric digits")
	ErrNotPositive = validation.NewError("validation_not_positive", "must be greater than zero")
	ErrBlank       = validation.NewError("validation_blank", "must not be blank")
)

// PinFormat accepts string and *string values. A nil pointer passes so that
// presence is left to validation.NotNil.
var PinFormat = validation.By(func(value any) error {
	pin, ok := stringValue(value)
	if !ok {
		return nil
	}
	if !PinPattern.MatchString(pin) {
		return ErrPinFormat
	}
	return nil
})

// PositiveAmount accepts decimal.Decimal and *decimal.Decimal values.
var PositiveAmount = validation.By(func(value any) error {
	var amount decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		amount = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		amount = *v
	default:
		return fmt.Errorf("unsupported amount type %T", value)
	}
	if !amount.IsPositive() {
		return ErrNotPositive
	}
	return nil
})

// NotBlank rejects strings made only of whitespace, which validation.Required lets through.
var NotBlank = validation.By(func(value any) error {
	s, ok := stringValue(value)
	if ok && strings.TrimSpace(s) == "" {
		return ErrBlank
	}
	return nil
})

var notNilUUID = validation.By(func(value any) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return validation.ErrRequired
	}
	return nil
})

// Field is a client-visible field name with the value and rules to check.
type Field struct {
	name  string
	value any
	rules []validation.Rule
}

func NewField(name string, value any, rules ...validation.Rule) Field {
	return Field{name: name, value: value, rules: rules}
}

// ValidateFields checks fields in order and converts the first failure into
// a ledger error: missing values become MissingField, bad PINs MalformedPin,
// and everything else Validation.
func ValidateFields(fields ...Field) error {
	for _, f := range fields {
		if err := validation.Validate(f.value, f.rules...); err != nil {
			return fieldError(f, err)
		}
	}
	return nil
}

func fieldError(f Field, err error) *Error {
	var verr validation.Error
	if !errors.As(err, &verr) {
		return NewUnknown(err)
	}

	switch verr.Code() {
	case validation.ErrRequired.Code(), validation.ErrNotNilRequired.Code(), validation.ErrNilOrNotEmpty.Code(), ErrBlank.Code():
		return NewMissingField(f.name)
	case ErrPinFormat.Code():
		pin, _ := stringValue(f.value)
		return NewMalformedPin(pin)
	case ErrNotPositive.Code():
		return NewNonPositiveAmount(amountString(f.value))
	default:
		return NewInvalidField(f.name, displayValue(f.value))
	}
}

// Validate checks that the command carries what its Type needs.
func (c *TransactionCommand) Validate() error {
	fields := []Field{
		NewField("request_id", c.RequestID, notNilUUID),
		NewField("type", string(c.Type),
			validation.Required,
			validation.In(string(CommandTypeDeposit), string(CommandTypeWithdraw), string(CommandTypeTransfer)),
		),
	}

	switch c.Type {
	case CommandTypeDeposit:
		fields = append(fields,
			NewField("account_number", c.AccountNumber, validation.Required),
			NewField("amount", c.Amount, PositiveAmount),
		)
	case CommandTypeWithdraw:
		fields = append(fields,
			NewField("account_number", c.AccountNumber, validation.Required),
			NewField("amount", c.Amount, PositiveAmount),
			NewField("pin", c.Pin, validation.Required, PinFormat),
		)
	case CommandTypeTransfer:
		fields = append(fields,
			NewField("payer_number", c.PayerNumber, validation.Required),
			NewField("payee_number", c.PayeeNumber, validation.Required),
			NewField("amount", c.Amount, PositiveAmount),
			NewField("pin", c.Pin, validation.Required, PinFormat),
		)
	}

	return ValidateFields(fields...)
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func amountString(value any) string {
	switch v := value.(type) {
	case decimal.Decimal:
		return v.String()
	case *decimal.Decimal:
		if v != nil {
			return v.String()
		}
	}
	return ""
}

func displayValue(value any) any {
	if s, ok := stringValue(value); ok {
		return s
	}
	return value
}
