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

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

func TestCreateAccount(t *testing.T) {
	b, _ := newTestBankcore(realClock{})

	ownerID := gofakeit.UUID()
	account, err := b.CreateAccount(context.Background(), "Emergency Fund", model.TypeSavings, ownerID)
	require.NoError(t, err)

	assert.NotEmpty(t, account.AccountID)
	assert.Contains(t, account.AccountID, "acc_")
	assert.Equal(t, model.TypeSavings, account.Type)
	assert.Equal(t, ownerID, account.OwnerID)
	assert.Equal(t, int64(0), account.Balance)
	assert.True(t, account.InterestRate.Equal(decimal.NewFromFloat(0.001)))
}

func TestCreateAccountValidation(t *testing.T) {
	b, _ := newTestBankcore(realClock{})
	ctx := context.Background()

	_, err := b.CreateAccount(ctx, "", model.TypeSavings, gofakeit.UUID())
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))

	_, err = b.CreateAccount(ctx, gofakeit.Name(), model.TypeSavings, "")
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))

	_, err = b.CreateAccount(ctx, gofakeit.Name(), model.AccountType("checking"), gofakeit.UUID())
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))
}

func TestGetBalance(t *testing.T) {
	b, _ := newTestBankcore(realClock{})
	account := seedAccount(t, b, model.TypeFixed, 50000)

	balance, err := b.GetBalance(context.Background(), account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)

	_, err = b.GetBalance(context.Background(), "acc_missing")
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestGetAccountsByOwner(t *testing.T) {
	b, _ := newTestBankcore(realClock{})
	ctx := context.Background()

	ownerID := gofakeit.UUID()
	for _, accountType := range []model.AccountType{model.TypeSavings, model.TypeFixed} {
		_, err := b.CreateAccount(ctx, gofakeit.Name(), accountType, ownerID)
		require.NoError(t, err)
	}
	_, err := b.CreateAccount(ctx, gofakeit.Name(), model.TypeSavings, gofakeit.UUID())
	require.NoError(t, err)

	accounts, err := b.GetAccountsByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	all, err := b.GetAllAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetTransactionHistory(t *testing.T) {
	b, _ := newTestBankcore(realClock{})
	ctx := context.Background()
	account := seedAccount(t, b, model.TypeSavings, 10000)

	_, err := b.Withdraw(ctx, account.AccountID, 3000)
	require.NoError(t, err)

	history, err := b.GetTransactionHistory(ctx, account.AccountID, 50, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first.
	assert.Equal(t, model.TypeWithdrawal, history[0].Type)
	assert.Equal(t, int64(-3000), history[0].Amount)
	assert.Equal(t, model.TypeDeposit, history[1].Type)

	_, err = b.GetTransactionHistory(ctx, "acc_missing", 50, 0)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}
