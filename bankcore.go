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

// Package bankcore is the money-movement and interest-accrual engine of the
// banking system. It exposes deposits, withdrawals, transfers, interest
// computation and application, and the accrual scheduler; everything outside
// (menus, authentication, HTTP) is an external collaborator calling in
// through this surface.
package bankcore

import (
	"time"

	"github.com/hanbitbank/bankcore/config"
	"github.com/hanbitbank/bankcore/database"
)

// Clock abstracts the wall clock so time-dependent behavior (interest
// eligibility, the accrual window) can be tested without real waits.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Bankcore represents the main struct for the banking core. It holds the
// explicit datasource handle; no component reaches for a global connection.
type Bankcore struct {
	datasource    database.IDataSource
	clock         Clock
	minimumAmount int64
}

// NewBankcore initializes a new instance of Bankcore with the provided
// datasource. The minimum transaction amount policy comes from configuration.
func NewBankcore(db database.IDataSource) (*Bankcore, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &Bankcore{
		datasource:    db,
		clock:         realClock{},
		minimumAmount: configuration.Policy.MinimumAmount,
	}, nil
}
