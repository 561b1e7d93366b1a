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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

// seedAccrualAccount creates a funded account whose last interest date is
// backdated so it is due for accrual.
func seedAccrualAccount(t *testing.T, b *Bankcore, ds *MockDataSource, accountType model.AccountType, balance int64, daysAgo int) *model.Account {
	t.Helper()
	account := seedAccount(t, b, accountType, balance)
	ds.mu.Lock()
	ds.accounts[account.AccountID].LastInterestDate = time.Now().AddDate(0, 0, -daysAgo)
	ds.mu.Unlock()
	return account
}

func TestComputeInterest(t *testing.T) {
	b, ds := newTestBankcore(realClock{})
	ctx := context.Background()
	account := seedAccrualAccount(t, b, ds, model.TypeInstallment, 100000, 30)

	quote, err := b.ComputeInterest(ctx, account.AccountID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, quote)

	// 100000 * 0.020 * 30 / 365 = 164.38..., rounds to 164.
	assert.Equal(t, int64(164), quote.Amount)
	assert.Equal(t, 30, quote.Days)
	assert.Equal(t, int64(100000), quote.Principal)
	assert.Equal(t, model.TypeInstallment, quote.AccountType)
}

func TestComputeInterestNotDue(t *testing.T) {
	b, _ := newTestBankcore(realClock{})
	ctx := context.Background()
	account := seedAccount(t, b, model.TypeSavings, 100000)

	// Created just now: no whole day elapsed, so no quote and no error.
	quote, err := b.ComputeInterest(ctx, account.AccountID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestApplyInterest(t *testing.T) {
	b, ds := newTestBankcore(realClock{})
	ctx := context.Background()
	account := seedAccrualAccount(t, b, ds, model.TypeFixed, 200000, 31)

	quote, err := b.ComputeInterest(ctx, account.AccountID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, quote)

	actorID := model.ManualOverrideActor("month_end_rerun")
	payment, err := b.ApplyInterest(ctx, quote, actorID)
	require.NoError(t, err)
	assert.Equal(t, quote.Amount, payment.Amount)
	assert.Equal(t, "MANUAL_OVERRIDE:month_end_rerun", payment.ActorID)

	balance, err := b.GetBalance(ctx, account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, quote.Principal+quote.Amount, balance)

	payments, err := b.GetInterestPayments(ctx, account.AccountID, 10, 0)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, payment.PaymentID, payments[0].PaymentID)
}

func TestApplyInterestStaleQuote(t *testing.T) {
	b, ds := newTestBankcore(realClock{})
	ctx := context.Background()
	account := seedAccrualAccount(t, b, ds, model.TypeFixed, 200000, 31)

	quote, err := b.ComputeInterest(ctx, account.AccountID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, quote)

	// Balance moves between compute and apply.
	_, err = b.Withdraw(ctx, account.AccountID, 50000)
	require.NoError(t, err)

	_, err = b.ApplyInterest(ctx, quote, model.ActorAutoScheduler)
	assert.True(t, apierror.Is(err, apierror.ErrStaleState))

	// The stale quote credited nothing.
	payments, err := b.GetInterestPayments(ctx, account.AccountID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestListEligible(t *testing.T) {
	b, ds := newTestBankcore(realClock{})
	ctx := context.Background()

	due := seedAccrualAccount(t, b, ds, model.TypeSavings, 5000000, 30)
	seedAccount(t, b, model.TypeSavings, 100000)  // not due: no day elapsed
	seedAccrualAccount(t, b, ds, model.TypeSavings, 0, 30) // zero balance

	quotes, err := b.ListEligible(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, due.AccountID, quotes[0].AccountID)
}

func TestRunBulkInterest(t *testing.T) {
	b, ds := newTestBankcore(realClock{})
	ctx := context.Background()

	savings := seedAccrualAccount(t, b, ds, model.TypeSavings, 10000000, 30)
	fixed := seedAccrualAccount(t, b, ds, model.TypeFixed, 1000000, 30)

	summary, err := b.RunBulkInterest(ctx, model.ActorAutoScheduler)
	require.NoError(t, err)

	assert.Equal(t, model.ActorAutoScheduler, summary.ActorID)
	assert.Equal(t, 2, summary.Applied)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.ByType[model.TypeSavings].Count)
	assert.Equal(t, 1, summary.ByType[model.TypeFixed].Count)
	assert.Equal(t,
		summary.ByType[model.TypeSavings].Amount+summary.ByType[model.TypeFixed].Amount,
		summary.TotalAmount)

	// Both accounts were credited and carry the scheduler's actor id.
	for _, account := range []*model.Account{savings, fixed} {
		payments, err := b.GetInterestPayments(ctx, account.AccountID, 10, 0)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, model.ActorAutoScheduler, payments[0].ActorID)
	}
}

func TestRunBulkInterestPartialFailure(t *testing.T) {
	b, ds := newTestBankcore(realClock{})
	ctx := context.Background()

	healthy := seedAccrualAccount(t, b, ds, model.TypeSavings, 10000000, 30)
	broken := seedAccrualAccount(t, b, ds, model.TypeFixed, 1000000, 30)
	ds.ApplyInterestErrs[broken.AccountID] = apierror.NewAPIError(apierror.ErrPersistence, "write failed", nil)

	summary, err := b.RunBulkInterest(ctx, model.ActorAutoScheduler)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, broken.AccountID, summary.Failures[0].AccountID)

	// The healthy account's accrual went through despite the failure.
	payments, err := b.GetInterestPayments(ctx, healthy.AccountID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestRunBulkInterestNothingEligible(t *testing.T) {
	b, _ := newTestBankcore(realClock{})

	summary, err := b.RunBulkInterest(context.Background(), model.ActorAutoScheduler)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Applied)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, int64(0), summary.TotalAmount)
}
