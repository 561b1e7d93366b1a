/*
Copyright 2024 Hanbit Bank Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bankcore

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hanbitbank/bankcore/model"
)

// TypeSummary aggregates a bulk run's results for one account type.
type TypeSummary struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

// AccrualFailure records one account whose accrual failed during a bulk run.
type AccrualFailure struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error"`
}

// BulkRunSummary is the aggregate result of one bulk interest run. Failures
// are per-account; one account's failure never aborts the others.
type BulkRunSummary struct {
	ActorID     string                            `json:"actor_id"`
	StartedAt   time.Time                         `json:"started_at"`
	FinishedAt  time.Time                         `json:"finished_at"`
	Applied     int                               `json:"applied"`
	Failed      int                               `json:"failed"`
	TotalAmount int64                             `json:"total_amount"`
	ByType      map[model.AccountType]TypeSummary `json:"by_type"`
	Failures    []AccrualFailure                  `json:"failures,omitempty"`
}

// ComputeInterest computes the interest quote for one account as of the given
// time. Returns (nil, nil) when the account is not due: fewer than one whole
// day elapsed since the last interest date, or the computed amount rounds to
// zero. Never mutates state.
func (b *Bankcore) ComputeInterest(ctx context.Context, accountID string, asOf time.Time) (*model.InterestQuote, error) {
	account, err := b.datasource.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return model.NewQuote(account, asOf), nil
}

// ListEligible scans all accounts with a positive balance and rate and
// returns the quotes with a positive amount.
func (b *Bankcore) ListEligible(ctx context.Context, asOf time.Time) ([]model.InterestQuote, error) {
	accounts, err := b.datasource.GetEligibleAccounts(ctx)
	if err != nil {
		return nil, err
	}

	var quotes []model.InterestQuote
	for i := range accounts {
		if quote := model.NewQuote(&accounts[i], asOf); quote != nil {
			quotes = append(quotes, *quote)
		}
	}
	return quotes, nil
}

// ApplyInterest credits one quote to its account inside one atomic unit of
// work. The store rejects the quote with STALE_STATE if the balance moved
// since the quote was computed.
func (b *Bankcore) ApplyInterest(ctx context.Context, quote *model.InterestQuote, actorID string) (*model.InterestPayment, error) {
	payment, err := b.datasource.ApplyInterest(ctx, quote, actorID)
	if err != nil {
		logrus.Errorf("interest application failed for account %s: %v", quote.AccountID, err)
		return nil, err
	}
	logrus.Infof("interest of %d applied to account %s by %s", payment.Amount, payment.AccountID, actorID)
	return payment, nil
}

// RunBulkInterest applies interest to every eligible account. Accounts are
// processed independently: a failure is recorded in the summary and the run
// moves on.
func (b *Bankcore) RunBulkInterest(ctx context.Context, actorID string) (*BulkRunSummary, error) {
	startedAt := b.clock.Now()
	summary := &BulkRunSummary{
		ActorID:   actorID,
		StartedAt: startedAt,
		ByType:    make(map[model.AccountType]TypeSummary),
	}

	quotes, err := b.ListEligible(ctx, startedAt)
	if err != nil {
		return nil, err
	}

	for i := range quotes {
		quote := &quotes[i]
		payment, err := b.ApplyInterest(ctx, quote, actorID)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, AccrualFailure{
				AccountID: quote.AccountID,
				Error:     err.Error(),
			})
			continue
		}
		summary.Applied++
		summary.TotalAmount += payment.Amount
		byType := summary.ByType[quote.AccountType]
		byType.Count++
		byType.Amount += payment.Amount
		summary.ByType[quote.AccountType] = byType
	}

	summary.FinishedAt = b.clock.Now()
	logrus.Infof("bulk interest run by %s: %d applied, %d failed, total %d",
		actorID, summary.Applied, summary.Failed, summary.TotalAmount)
	return summary, nil
}
