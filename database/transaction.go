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

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

const transactionColumns = `transaction_id, account_id, type, amount, balance_after,
	COALESCE(counterpart_id, ''), COALESCE(counterpart_name, ''), COALESCE(memo, ''), created_at`

// recordTransactionTx appends one journal entry inside the caller's database
// transaction. The journal is append-only; this is the only write path.
func recordTransactionTx(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (transaction_id, account_id, type, amount, balance_after, counterpart_id, counterpart_name, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, txn.TransactionID, txn.AccountID, txn.Type, txn.Amount, txn.BalanceAfter,
		txn.CounterpartID, txn.CounterpartName, txn.Memo, txn.CreatedAt)
	return err
}

func (d *Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transaction_id = $1
	`, id)

	txn := &model.Transaction{}
	err := row.Scan(&txn.TransactionID, &txn.AccountID, &txn.Type, &txn.Amount, &txn.BalanceAfter,
		&txn.CounterpartID, &txn.CounterpartName, &txn.Memo, &txn.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve transaction", err)
	}
	return txn, nil
}

func (d *Datasource) GetTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn := model.Transaction{}
		err := rows.Scan(&txn.TransactionID, &txn.AccountID, &txn.Type, &txn.Amount, &txn.BalanceAfter,
			&txn.CounterpartID, &txn.CounterpartName, &txn.Memo, &txn.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to scan transaction data", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Error occurred while iterating over transactions", err)
	}
	return transactions, nil
}
