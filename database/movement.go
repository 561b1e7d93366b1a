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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

// lockAccountBalance reads one account's balance under a row-level write
// lock. The lock is held until the surrounding transaction commits or rolls
// back, serializing all mutations against the same account.
func lockAccountBalance(ctx context.Context, tx *sql.Tx, accountID string) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx, `
		SELECT balance FROM accounts WHERE account_id = $1 FOR UPDATE
	`, accountID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", accountID), err)
		}
		return 0, apierror.NewAPIError(apierror.ErrPersistence, "Failed to lock account", err)
	}
	return balance, nil
}

func updateAccountBalanceTx(ctx context.Context, tx *sql.Tx, accountID string, newBalance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = $2, version = version + 1 WHERE account_id = $1
	`, accountID, newBalance)
	return err
}

// Deposit credits an account inside one atomic unit of work: lock the row,
// re-read the balance, append the journal entry, write the new balance.
func (d *Datasource) Deposit(ctx context.Context, accountID string, amount int64, memo, counterpartName string) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to begin deposit", err)
	}

	balance, err := lockAccountBalance(ctx, tx, accountID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	newBalance := balance + amount
	txn := &model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		AccountID:       accountID,
		Type:            model.TypeDeposit,
		Amount:          amount,
		BalanceAfter:    newBalance,
		CounterpartName: counterpartName,
		Memo:            memo,
		CreatedAt:       time.Now(),
	}

	if err := recordTransactionTx(ctx, tx, txn); err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to record deposit", err)
	}
	if err := updateAccountBalanceTx(ctx, tx, accountID, newBalance); err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to update balance", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to commit deposit", err)
	}
	return txn, nil
}

// Withdraw debits an account inside one atomic unit of work. The sufficiency
// check runs against the balance read under the row lock, so two concurrent
// withdrawals can never both spend the same funds.
func (d *Datasource) Withdraw(ctx context.Context, accountID string, amount int64, memo string) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to begin withdrawal", err)
	}

	balance, err := lockAccountBalance(ctx, tx, accountID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if amount > balance {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds: balance %d, requested %d", balance, amount), nil)
	}

	newBalance := balance - amount
	txn := &model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		AccountID:     accountID,
		Type:          model.TypeWithdrawal,
		Amount:        -amount,
		BalanceAfter:  newBalance,
		Memo:          memo,
		CreatedAt:     time.Now(),
	}

	if err := recordTransactionTx(ctx, tx, txn); err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to record withdrawal", err)
	}
	if err := updateAccountBalanceTx(ctx, tx, accountID, newBalance); err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to update balance", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to commit withdrawal", err)
	}
	return txn, nil
}

// Transfer moves funds between two accounts as one atomic unit of work: both
// rows are locked in account-id order to avoid lock-order deadlocks, both
// journal entries are appended with one shared timestamp and mutual
// counterpart references, and both balance writes commit together or not at
// all.
func (d *Datasource) Transfer(ctx context.Context, fromID, toID string, amount int64) (*model.Transaction, *model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to begin transfer", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT account_id, name, balance FROM accounts
		WHERE account_id = $1 OR account_id = $2
		ORDER BY account_id
		FOR UPDATE
	`, fromID, toID)
	if err != nil {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to lock accounts", err)
	}

	type lockedAccount struct {
		name    string
		balance int64
	}
	locked := make(map[string]lockedAccount, 2)
	for rows.Next() {
		var id, name string
		var balance int64
		if err := rows.Scan(&id, &name, &balance); err != nil {
			rows.Close()
			_ = tx.Rollback()
			return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to scan locked account", err)
		}
		locked[id] = lockedAccount{name: name, balance: balance}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to lock accounts", err)
	}

	from, ok := locked[fromID]
	if !ok {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", fromID), nil)
	}
	to, ok := locked[toID]
	if !ok {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", toID), nil)
	}

	if amount > from.balance {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds: balance %d, requested %d", from.balance, amount), nil)
	}

	now := time.Now()
	outTxn := &model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		AccountID:       fromID,
		Type:            model.TypeTransferOut,
		Amount:          -amount,
		BalanceAfter:    from.balance - amount,
		CounterpartID:   toID,
		CounterpartName: to.name,
		Memo:            fmt.Sprintf("transfer to %s", to.name),
		CreatedAt:       now,
	}
	inTxn := &model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		AccountID:       toID,
		Type:            model.TypeTransferIn,
		Amount:          amount,
		BalanceAfter:    to.balance + amount,
		CounterpartID:   fromID,
		CounterpartName: from.name,
		Memo:            fmt.Sprintf("transfer from %s", from.name),
		CreatedAt:       now,
	}

	if err := recordTransactionTx(ctx, tx, outTxn); err != nil {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to record transfer leg", err)
	}
	if err := recordTransactionTx(ctx, tx, inTxn); err != nil {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to record transfer leg", err)
	}
	if err := updateAccountBalanceTx(ctx, tx, fromID, outTxn.BalanceAfter); err != nil {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to update source balance", err)
	}
	if err := updateAccountBalanceTx(ctx, tx, toID, inTxn.BalanceAfter); err != nil {
		_ = tx.Rollback()
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to update destination balance", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to commit transfer", err)
	}
	return outTxn, inTxn, nil
}
