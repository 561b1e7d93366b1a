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

	"github.com/hanbitbank/bankcore/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account  // Account row access
	journal  // Append-only transaction journal
	movement // Atomic money-movement units of work
	interest // Interest payment units of work
}

// account defines methods for reading and creating account rows.
type account interface {
	CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error)
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetAccountsByOwner(ctx context.Context, ownerID string) ([]model.Account, error)
	GetAllAccounts(ctx context.Context) ([]model.Account, error)
	AccountExists(ctx context.Context, id string) (bool, error)
	GetEligibleAccounts(ctx context.Context) ([]model.Account, error) // balance > 0 and rate > 0
}

// journal defines read methods over the transaction journal. Writes happen
// only inside the movement units of work.
type journal interface {
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Transaction, error)
}

// movement defines the atomic units of work that move money. Each call opens
// its own database transaction, locks the touched account rows, appends the
// journal entries and writes the new balances, then commits or rolls back as
// one unit.
type movement interface {
	Deposit(ctx context.Context, accountID string, amount int64, memo, counterpartName string) (*model.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount int64, memo string) (*model.Transaction, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64) (*model.Transaction, *model.Transaction, error)
}

// interest defines the interest payment unit of work and payment reads.
type interest interface {
	ApplyInterest(ctx context.Context, quote *model.InterestQuote, actorID string) (*model.InterestPayment, error)
	GetInterestPayments(ctx context.Context, accountID string, limit, offset int) ([]model.InterestPayment, error)
}
