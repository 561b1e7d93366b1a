package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the closed set of account products. Each type carries a
// fixed annual interest rate assigned at account creation.
type AccountType string

const (
	TypeSavings     AccountType = "savings"
	TypeFixed       AccountType = "fixed"
	TypeInstallment AccountType = "installment"
)

var annualRates = map[AccountType]decimal.Decimal{
	TypeSavings:     decimal.NewFromFloat(0.001),
	TypeFixed:       decimal.NewFromFloat(0.015),
	TypeInstallment: decimal.NewFromFloat(0.020),
}

// RateForType returns the annual interest rate for an account type.
// Unknown types earn nothing.
func RateForType(t AccountType) decimal.Decimal {
	if rate, ok := annualRates[t]; ok {
		return rate
	}
	return decimal.Zero
}

// ValidAccountType reports whether t is one of the supported products.
func ValidAccountType(t AccountType) bool {
	_, ok := annualRates[t]
	return ok
}

type Account struct {
	ID               int64           `json:"-"`
	AccountID        string          `json:"account_id"`
	Name             string          `json:"name"`
	Type             AccountType     `json:"type"`
	OwnerID          string          `json:"owner_id"`
	Balance          int64           `json:"balance"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	LastInterestDate time.Time       `json:"last_interest_date"`
	CreatedAt        time.Time       `json:"created_at"`
	Version          int64           `json:"version"`
}

// NewAccount builds an account of the given type with the rate derived from
// the type. The balance starts at zero; initial funding goes through the
// movement engine so it lands in the journal like any other deposit.
func NewAccount(name string, accountType AccountType, ownerID string) *Account {
	now := time.Now()
	return &Account{
		AccountID:        GenerateUUIDWithSuffix("acc"),
		Name:             name,
		Type:             accountType,
		OwnerID:          ownerID,
		Balance:          0,
		InterestRate:     RateForType(accountType),
		LastInterestDate: now,
		CreatedAt:        now,
	}
}
