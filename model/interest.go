package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reserved actor ids for interest runs not initiated by a human admin.
const (
	ActorAutoScheduler      = "AUTO_SCHEDULER"
	ActorManualOverride     = "MANUAL_OVERRIDE"
	manualOverrideSeparator = ":"
)

// ManualOverrideActor builds the actor id for a manual interest run carrying
// a reason code, e.g. "MANUAL_OVERRIDE:month_end_rerun".
func ManualOverrideActor(reason string) string {
	return ActorManualOverride + manualOverrideSeparator + reason
}

// InterestQuote is a computed-but-not-yet-applied interest amount for one
// account. Principal is the balance the computation was based on; Apply
// re-checks it so a quote computed against stale state is rejected.
type InterestQuote struct {
	AccountID   string          `json:"account_id"`
	AccountType AccountType     `json:"account_type"`
	Principal   int64           `json:"principal"`
	Rate        decimal.Decimal `json:"rate"`
	Days        int             `json:"days"`
	Amount      int64           `json:"amount"`
	AsOf        time.Time       `json:"as_of"`
}

// InterestPayment records one applied accrual. Created only by the accrual
// engine and never mutated.
type InterestPayment struct {
	ID          int64     `json:"-"`
	PaymentID   string    `json:"payment_id"`
	AccountID   string    `json:"account_id"`
	PaymentDate time.Time `json:"payment_date"`
	Amount      int64     `json:"amount"`
	ActorID     string    `json:"actor_id"`
}

var daysPerYear = decimal.NewFromInt(365)

// CalculateInterest computes simple interest for a whole number of days:
// principal * rate * days / 365, rounded to the nearest minor unit with ties
// rounding up (decimal.Round rounds half away from zero, which for the
// non-negative principals accepted here is round-half-up).
func CalculateInterest(principal int64, rate decimal.Decimal, days int) int64 {
	if principal <= 0 || days <= 0 || !rate.IsPositive() {
		return 0
	}
	interest := decimal.NewFromInt(principal).
		Mul(rate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(daysPerYear)
	return interest.Round(0).IntPart()
}

// NewQuote computes the interest quote for an account as of the given time.
// Returns nil when no whole day has elapsed since the last interest date or
// the computed amount is zero: the account is simply not due.
func NewQuote(account *Account, asOf time.Time) *InterestQuote {
	days := DaysBetween(account.LastInterestDate, asOf)
	if days < 1 {
		return nil
	}
	amount := CalculateInterest(account.Balance, account.InterestRate, days)
	if amount <= 0 {
		return nil
	}
	return &InterestQuote{
		AccountID:   account.AccountID,
		AccountType: account.Type,
		Principal:   account.Balance,
		Rate:        account.InterestRate,
		Days:        days,
		Amount:      amount,
		AsOf:        asOf,
	}
}
