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
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

// CreateAccount opens a new account of the given type for an owner. The
// interest rate is derived from the type; the balance starts at zero and any
// initial funding goes through Deposit so it appears in the journal.
func (b *Bankcore) CreateAccount(ctx context.Context, name string, accountType model.AccountType, ownerID string) (*model.Account, error) {
	if name == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Account name is required", nil)
	}
	if ownerID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Owner ID is required", nil)
	}
	if !model.ValidAccountType(accountType) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown account type '%s'", accountType), nil)
	}

	account, err := b.datasource.CreateAccount(ctx, model.NewAccount(name, accountType, ownerID))
	if err != nil {
		logrus.Errorf("error creating account: %v", err)
		return nil, err
	}
	logrus.Infof("account %s created for owner %s (type %s)", account.AccountID, ownerID, accountType)
	return account, nil
}

func (b *Bankcore) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	return b.datasource.GetAccountByID(ctx, accountID)
}

func (b *Bankcore) GetAccountsByOwner(ctx context.Context, ownerID string) ([]model.Account, error) {
	return b.datasource.GetAccountsByOwner(ctx, ownerID)
}

// GetAllAccounts lists every account. Admin read; pagination is left to the
// caller since account counts stay small relative to the journal.
func (b *Bankcore) GetAllAccounts(ctx context.Context) ([]model.Account, error) {
	return b.datasource.GetAllAccounts(ctx)
}

// GetBalance reads the current balance. Always a fresh read; the engine keeps
// no authoritative in-memory copies between calls.
func (b *Bankcore) GetBalance(ctx context.Context, accountID string) (int64, error) {
	account, err := b.datasource.GetAccountByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (b *Bankcore) GetTransactionHistory(ctx context.Context, accountID string, limit, offset int) ([]model.Transaction, error) {
	exists, err := b.datasource.AccountExists(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", accountID), nil)
	}
	return b.datasource.GetTransactionsByAccount(ctx, accountID, limit, offset)
}

// GetInterestPayments lists applied interest payments, newest first. An empty
// accountID returns payments across all accounts.
func (b *Bankcore) GetInterestPayments(ctx context.Context, accountID string, limit, offset int) ([]model.InterestPayment, error) {
	return b.datasource.GetInterestPayments(ctx, accountID, limit, offset)
}
