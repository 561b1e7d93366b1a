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

	"github.com/lib/pq"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

const accountColumns = `account_id, name, type, owner_id, balance, interest_rate, last_interest_date, created_at, version`

// CreateAccount inserts a new account row. The account ID and creation
// timestamp are assigned here if the caller left them empty.
func (d *Datasource) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	if account.AccountID == "" {
		account.AccountID = model.GenerateUUIDWithSuffix("acc")
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	if account.LastInterestDate.IsZero() {
		account.LastInterestDate = account.CreatedAt
	}

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO accounts (account_id, name, type, owner_id, balance, interest_rate, last_interest_date, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
	`, account.AccountID, account.Name, account.Type, account.OwnerID, account.Balance, account.InterestRate, account.LastInterestDate, account.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Account with ID '%s' already exists", account.AccountID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to create account", err)
	}

	return account, nil
}

func scanAccount(row interface{ Scan(...interface{}) error }, account *model.Account) error {
	return row.Scan(&account.AccountID, &account.Name, &account.Type, &account.OwnerID,
		&account.Balance, &account.InterestRate, &account.LastInterestDate, &account.CreatedAt, &account.Version)
}

func (d *Datasource) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_id = $1
	`, id)

	account := &model.Account{}
	if err := scanAccount(row, account); err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve account", err)
	}
	return account, nil
}

func (d *Datasource) AccountExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrPersistence, "Failed to check if account exists", err)
	}
	return exists, nil
}

func (d *Datasource) GetAccountsByOwner(ctx context.Context, ownerID string) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE owner_id = $1
		ORDER BY account_id
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve accounts", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (d *Datasource) GetAllAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY account_id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve accounts", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// GetEligibleAccounts returns accounts that can accrue interest: positive
// balance and a positive rate. Quote computation filters further on elapsed
// days.
func (d *Datasource) GetEligibleAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE balance > 0 AND interest_rate > 0
		ORDER BY account_id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve eligible accounts", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]model.Account, error) {
	var accounts []model.Account
	for rows.Next() {
		account := model.Account{}
		if err := scanAccount(rows, &account); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to scan account data", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Error occurred while iterating over accounts", err)
	}
	return accounts, nil
}
