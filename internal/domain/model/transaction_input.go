package model

import (
	"github.com/ahesenov7-ai/paysphate.demo/pkg/money"
)

// Transaction types offered by the payment form.
const (
	TransactionTypeStandard  = "standard"
	TransactionTypeFirstTime = "first-time"
	TransactionTypeInstant   = "instant"
)

// Account ages offered by the payment form.
const (
	AccountAgeNew         = "new"
	AccountAgeRecent      = "6months"
	AccountAgeEstablished = "established"
)

// SelectableCountries lists the sender countries offered by the payment form.
var SelectableCountries = []string{"US", "GB", "DE", "FR", "IN", "BR", "CN", "NG", "RU"}

// TransactionInput holds the submitted payment attributes fed to the scorer.
// Enumerated fields may carry values outside the known sets; scoring treats
// those as contributing nothing.
type TransactionInput struct {
	Amount          money.Money
	Country         string
	TransactionType string
	AccountAge      string
}
