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
	"sync"
	"time"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

// MockDataSource is an in-memory IDataSource for tests. A single mutex
// serializes every unit of work, mirroring the row-lock semantics of the
// real store: each mutating call re-reads state under the lock, applies
// both its writes, and releases.
type MockDataSource struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	journal  []model.Transaction
	payments []model.InterestPayment

	// ApplyInterestErrs forces per-account failures during interest
	// application, for partial-failure tests.
	ApplyInterestErrs map[string]error
}

func NewMockDataSource() *MockDataSource {
	return &MockDataSource{
		accounts:          make(map[string]*model.Account),
		ApplyInterestErrs: make(map[string]error),
	}
}

func (m *MockDataSource) CreateAccount(_ context.Context, account *model.Account) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.AccountID == "" {
		account.AccountID = model.GenerateUUIDWithSuffix("acc")
	}
	if _, exists := m.accounts[account.AccountID]; exists {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Account already exists", nil)
	}
	copied := *account
	m.accounts[account.AccountID] = &copied
	return account, nil
}

func (m *MockDataSource) getAccount(id string) (*model.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), nil)
	}
	return account, nil
}

func (m *MockDataSource) GetAccountByID(_ context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.getAccount(id)
	if err != nil {
		return nil, err
	}
	copied := *account
	return &copied, nil
}

func (m *MockDataSource) GetAccountsByOwner(_ context.Context, ownerID string) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []model.Account
	for _, account := range m.accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, *account)
		}
	}
	return accounts, nil
}

func (m *MockDataSource) GetAllAccounts(_ context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []model.Account
	for _, account := range m.accounts {
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

func (m *MockDataSource) AccountExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[id]
	return ok, nil
}

func (m *MockDataSource) GetEligibleAccounts(_ context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []model.Account
	for _, account := range m.accounts {
		if account.Balance > 0 && account.InterestRate.IsPositive() {
			accounts = append(accounts, *account)
		}
	}
	return accounts, nil
}

func (m *MockDataSource) GetTransaction(_ context.Context, id string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.journal {
		if m.journal[i].TransactionID == id {
			txn := m.journal[i]
			return &txn, nil
		}
	}
	return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), nil)
}

func (m *MockDataSource) GetTransactionsByAccount(_ context.Context, accountID string, limit, offset int) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var transactions []model.Transaction
	for i := len(m.journal) - 1; i >= 0; i-- {
		if m.journal[i].AccountID == accountID {
			transactions = append(transactions, m.journal[i])
		}
	}
	if offset >= len(transactions) {
		return nil, nil
	}
	transactions = transactions[offset:]
	if limit < len(transactions) {
		transactions = transactions[:limit]
	}
	return transactions, nil
}

func (m *MockDataSource) Deposit(_ context.Context, accountID string, amount int64, memo, counterpartName string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.getAccount(accountID)
	if err != nil {
		return nil, err
	}
	account.Balance += amount
	account.Version++
	txn := model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		AccountID:       accountID,
		Type:            model.TypeDeposit,
		Amount:          amount,
		BalanceAfter:    account.Balance,
		CounterpartName: counterpartName,
		Memo:            memo,
		CreatedAt:       time.Now(),
	}
	m.journal = append(m.journal, txn)
	return &txn, nil
}

func (m *MockDataSource) Withdraw(_ context.Context, accountID string, amount int64, memo string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.getAccount(accountID)
	if err != nil {
		return nil, err
	}
	if amount > account.Balance {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds: balance %d, requested %d", account.Balance, amount), nil)
	}
	account.Balance -= amount
	account.Version++
	txn := model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		AccountID:     accountID,
		Type:          model.TypeWithdrawal,
		Amount:        -amount,
		BalanceAfter:  account.Balance,
		Memo:          memo,
		CreatedAt:     time.Now(),
	}
	m.journal = append(m.journal, txn)
	return &txn, nil
}

func (m *MockDataSource) Transfer(_ context.Context, fromID, toID string, amount int64) (*model.Transaction, *model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	from, err := m.getAccount(fromID)
	if err != nil {
		return nil, nil, err
	}
	to, err := m.getAccount(toID)
	if err != nil {
		return nil, nil, err
	}
	if amount > from.Balance {
		return nil, nil, apierror.NewAPIError(apierror.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds: balance %d, requested %d", from.Balance, amount), nil)
	}
	from.Balance -= amount
	from.Version++
	to.Balance += amount
	to.Version++
	now := time.Now()
	outTxn := model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		AccountID:       fromID,
		Type:            model.TypeTransferOut,
		Amount:          -amount,
		BalanceAfter:    from.Balance,
		CounterpartID:   toID,
		CounterpartName: to.Name,
		CreatedAt:       now,
	}
	inTxn := model.Transaction{
		TransactionID:   model.GenerateUUIDWithSuffix("txn"),
		AccountID:       toID,
		Type:            model.TypeTransferIn,
		Amount:          amount,
		BalanceAfter:    to.Balance,
		CounterpartID:   fromID,
		CounterpartName: from.Name,
		CreatedAt:       now,
	}
	m.journal = append(m.journal, outTxn, inTxn)
	return &outTxn, &inTxn, nil
}

func (m *MockDataSource) ApplyInterest(_ context.Context, quote *model.InterestQuote, actorID string) (*model.InterestPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.ApplyInterestErrs[quote.AccountID]; ok {
		return nil, err
	}
	account, err := m.getAccount(quote.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Balance != quote.Principal {
		return nil, apierror.NewAPIError(apierror.ErrStaleState,
			fmt.Sprintf("Account '%s' balance changed since quote was computed", quote.AccountID), nil)
	}
	account.Balance = quote.Principal + quote.Amount
	account.LastInterestDate = quote.AsOf
	account.Version++
	payment := model.InterestPayment{
		PaymentID:   model.GenerateUUIDWithSuffix("pay"),
		AccountID:   quote.AccountID,
		PaymentDate: time.Now(),
		Amount:      quote.Amount,
		ActorID:     actorID,
	}
	m.payments = append(m.payments, payment)
	return &payment, nil
}

func (m *MockDataSource) GetInterestPayments(_ context.Context, accountID string, limit, offset int) ([]model.InterestPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var payments []model.InterestPayment
	for i := len(m.payments) - 1; i >= 0; i-- {
		if accountID == "" || m.payments[i].AccountID == accountID {
			payments = append(payments, m.payments[i])
		}
	}
	if offset >= len(payments) {
		return nil, nil
	}
	payments = payments[offset:]
	if limit < len(payments) {
		payments = payments[:limit]
	}
	return payments, nil
}
