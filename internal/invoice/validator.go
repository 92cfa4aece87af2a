package invoice

import (
	"errors"
	"net/mail"
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidPayerEmail  = errors.New("payer_email is not a valid address")
	ErrMissingDescription = errors.New("description must not be empty")
)

type CreateRequest struct {
	ProductID   string
	Amount      int64
	PayerEmail  string
	Description string
}

func ValidateCreateRequest(r CreateRequest) error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.Description == "" {
		return ErrMissingDescription
	}
	if _, err := mail.ParseAddress(r.PayerEmail); err != nil {
		return ErrInvalidPayerEmail
	}
	return nil
}
