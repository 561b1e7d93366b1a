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
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/hanbitbank/bankcore/model"
)

// fakeClock is a settable Clock for driving time-dependent behavior in tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestBankcore(clock Clock) (*Bankcore, *MockDataSource) {
	ds := NewMockDataSource()
	return &Bankcore{
		datasource:    ds,
		clock:         clock,
		minimumAmount: 1000,
	}, ds
}

// seedAccount opens an account and funds it through the deposit path so the
// journal stays consistent with the balance from the first entry on.
func seedAccount(t *testing.T, b *Bankcore, accountType model.AccountType, balance int64) *model.Account {
	t.Helper()
	account, err := b.CreateAccount(context.Background(), gofakeit.Name(), accountType, gofakeit.UUID())
	require.NoError(t, err)
	if balance > 0 {
		_, err = b.Deposit(context.Background(), account.AccountID, balance, "opening deposit")
		require.NoError(t, err)
		account.Balance = balance
	}
	return account
}
