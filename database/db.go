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
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hanbitbank/bankcore/config"
)

// Datasource wraps the database handle. Each mutating operation opens its own
// transaction against Conn and releases it before returning; no transaction
// context is shared across concurrent calls.
type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := ConnectDB(configuration.DataSource.Dns)
	if err != nil {
		return nil, err
	}
	return &Datasource{Conn: con}, nil
}

// ConnectDB opens the Postgres connection, retrying the initial ping with
// exponential backoff, and bootstraps the schema.
func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	ping := func() error {
		return db.Ping()
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(ping, policy); err != nil {
		logrus.Errorf("database connection error: %v", err)
		return nil, errors.Wrap(err, "pinging database")
	}

	if err := createAccountTable(db); err != nil {
		return nil, err
	}
	if err := createTransactionTable(db); err != nil {
		return nil, err
	}
	if err := createInterestPaymentTable(db); err != nil {
		return nil, err
	}
	return db, nil
}

// createAccountTable creates the accounts table. Balance and interest amounts
// are stored in minor currency units as BIGINT; version backs the optimistic
// checks on interest application.
func createAccountTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			account_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			interest_rate NUMERIC(8,5) NOT NULL DEFAULT 0,
			last_interest_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			version BIGINT NOT NULL DEFAULT 0
		)
	`)
	return errors.Wrap(err, "creating accounts table")
}

// createTransactionTable creates the append-only journal. Rows are never
// updated or deleted.
func createTransactionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			account_id TEXT NOT NULL REFERENCES accounts(account_id),
			type TEXT NOT NULL,
			amount BIGINT NOT NULL,
			balance_after BIGINT NOT NULL,
			counterpart_id TEXT,
			counterpart_name TEXT,
			memo TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
	`)
	return errors.Wrap(err, "creating transactions table")
}

func createInterestPaymentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS interest_payments (
			id BIGSERIAL PRIMARY KEY,
			payment_id TEXT NOT NULL UNIQUE,
			account_id TEXT NOT NULL REFERENCES accounts(account_id),
			payment_date TIMESTAMPTZ NOT NULL,
			amount BIGINT NOT NULL,
			actor_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_interest_payments_account_id ON interest_payments(account_id);
	`)
	return errors.Wrap(err, "creating interest_payments table")
}
