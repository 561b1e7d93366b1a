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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hanbitbank/bankcore/internal/apierror"
)

// Receipt is the success payload of a money-movement operation. A transfer
// carries both leg ids; single-account operations carry one.
type Receipt struct {
	TransactionIDs []string  `json:"transaction_ids"`
	AccountID      string    `json:"account_id"`
	Amount         int64     `json:"amount"`
	BalanceAfter   int64     `json:"balance_after"`
	Timestamp      time.Time `json:"timestamp"`
}

// validateAmount enforces the policy minimum before any unit of work opens.
func (b *Bankcore) validateAmount(amount int64) error {
	if amount < b.minimumAmount {
		return apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Amount must be at least %d", b.minimumAmount), nil)
	}
	return nil
}

// Deposit credits an account. The depositor label is recorded on the journal
// entry so per-account history shows who paid in.
func (b *Bankcore) Deposit(ctx context.Context, accountID string, amount int64, depositorLabel string) (*Receipt, error) {
	if err := b.validateAmount(amount); err != nil {
		return nil, err
	}

	memo := "deposit"
	if depositorLabel != "" {
		memo = fmt.Sprintf("deposit - %s", depositorLabel)
	}
	txn, err := b.datasource.Deposit(ctx, accountID, amount, memo, depositorLabel)
	if err != nil {
		logrus.Errorf("deposit failed for account %s: %v", accountID, err)
		return nil, err
	}

	logrus.Infof("deposited %d to account %s", amount, accountID)
	return &Receipt{
		TransactionIDs: []string{txn.TransactionID},
		AccountID:      accountID,
		Amount:         amount,
		BalanceAfter:   txn.BalanceAfter,
		Timestamp:      txn.CreatedAt,
	}, nil
}

// Withdraw debits an account. Sufficiency is decided against the balance read
// under the row lock inside the unit of work, never against a prior read.
func (b *Bankcore) Withdraw(ctx context.Context, accountID string, amount int64) (*Receipt, error) {
	if err := b.validateAmount(amount); err != nil {
		return nil, err
	}

	txn, err := b.datasource.Withdraw(ctx, accountID, amount, "withdrawal")
	if err != nil {
		logrus.Errorf("withdrawal failed for account %s: %v", accountID, err)
		return nil, err
	}

	logrus.Infof("withdrew %d from account %s", amount, accountID)
	return &Receipt{
		TransactionIDs: []string{txn.TransactionID},
		AccountID:      accountID,
		Amount:         amount,
		BalanceAfter:   txn.BalanceAfter,
		Timestamp:      txn.CreatedAt,
	}, nil
}

// Transfer moves funds between two accounts atomically. The caller sees one
// receipt covering both legs or one error; a partially-applied transfer is
// never observable.
func (b *Bankcore) Transfer(ctx context.Context, fromID, toID string, amount int64) (*Receipt, error) {
	if err := b.validateAmount(amount); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apierror.NewAPIError(apierror.ErrSameAccount, "Source and destination accounts must differ", nil)
	}

	outTxn, inTxn, err := b.datasource.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		logrus.Errorf("transfer failed from %s to %s: %v", fromID, toID, err)
		return nil, err
	}

	logrus.Infof("transferred %d from account %s to account %s", amount, fromID, toID)
	return &Receipt{
		TransactionIDs: []string{outTxn.TransactionID, inTxn.TransactionID},
		AccountID:      fromID,
		Amount:         amount,
		BalanceAfter:   outTxn.BalanceAfter,
		Timestamp:      outTxn.CreatedAt,
	}, nil
}
