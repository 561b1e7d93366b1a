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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

var accountTestColumns = []string{
	"account_id", "name", "type", "owner_id", "balance",
	"interest_rate", "last_interest_date", "created_at", "version",
}

func TestCreateAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := &Datasource{Conn: db}

	account := model.NewAccount(gofakeit.Name(), model.TypeSavings, "user_1")

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(account.AccountID, account.Name, account.Type, account.OwnerID,
			account.Balance, account.InterestRate, account.LastInterestDate, account.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateAccount(context.Background(), account)
	assert.NoError(t, err)
	assert.Contains(t, created.AccountID, "acc_")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := &Datasource{Conn: db}
	now := time.Now()

	mock.ExpectQuery("SELECT .* FROM accounts").
		WithArgs("acc_123").
		WillReturnRows(sqlmock.NewRows(accountTestColumns).
			AddRow("acc_123", "Main", "savings", "user_1", int64(50000),
				"0.00100", now, now, int64(3)))

	account, err := ds.GetAccountByID(context.Background(), "acc_123")
	assert.NoError(t, err)
	assert.Equal(t, "acc_123", account.AccountID)
	assert.Equal(t, int64(50000), account.Balance)
	assert.Equal(t, model.TypeSavings, account.Type)
	assert.Equal(t, int64(3), account.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := &Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM accounts").
		WithArgs("acc_missing").
		WillReturnRows(sqlmock.NewRows(accountTestColumns))

	account, err := ds.GetAccountByID(context.Background(), "acc_missing")
	assert.Nil(t, account)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := &Datasource{Conn: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("acc_123").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ds.AccountExists(context.Background(), "acc_123")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEligibleAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := &Datasource{Conn: db}
	now := time.Now()

	mock.ExpectQuery("SELECT .* FROM accounts WHERE balance > 0 AND interest_rate > 0").
		WillReturnRows(sqlmock.NewRows(accountTestColumns).
			AddRow("acc_1", "A", "savings", "user_1", int64(100000),
				"0.00100", now.AddDate(0, 0, -30), now, int64(0)).
			AddRow("acc_2", "B", "installment", "user_2", int64(250000),
				"0.02000", now.AddDate(0, 0, -30), now, int64(0)))

	accounts, err := ds.GetEligibleAccounts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, "acc_1", accounts[0].AccountID)
	assert.Equal(t, model.TypeInstallment, accounts[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
