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
	"fmt"
	"time"

	"github.com/hanbitbank/bankcore/internal/apierror"
	"github.com/hanbitbank/bankcore/model"
)

// ApplyInterest credits a computed interest quote to its account as one
// atomic unit of work: insert the payment record, then conditionally update
// the balance. The update predicate requires the balance to still equal the
// quote's principal; if anything moved the balance since the quote was
// computed, zero rows match and the whole unit rolls back with STALE_STATE.
func (d *Datasource) ApplyInterest(ctx context.Context, quote *model.InterestQuote, actorID string) (*model.InterestPayment, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to begin interest application", err)
	}

	payment := &model.InterestPayment{
		PaymentID:   model.GenerateUUIDWithSuffix("pay"),
		AccountID:   quote.AccountID,
		PaymentDate: time.Now(),
		Amount:      quote.Amount,
		ActorID:     actorID,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO interest_payments (payment_id, account_id, payment_date, amount, actor_id)
		VALUES ($1, $2, $3, $4, $5)
	`, payment.PaymentID, payment.AccountID, payment.PaymentDate, payment.Amount, payment.ActorID)
	if err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to record interest payment", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $2, last_interest_date = $3, version = version + 1
		WHERE account_id = $1 AND balance = $4
	`, quote.AccountID, quote.Principal+quote.Amount, quote.AsOf, quote.Principal)
	if err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to update balance with interest", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to get rows affected", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		exists, existsErr := d.AccountExists(ctx, quote.AccountID)
		if existsErr == nil && !exists {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", quote.AccountID), nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrStaleState,
			fmt.Sprintf("Account '%s' balance changed since quote was computed", quote.AccountID), nil)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to commit interest application", err)
	}
	return payment, nil
}

func (d *Datasource) GetInterestPayments(ctx context.Context, accountID string, limit, offset int) ([]model.InterestPayment, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT payment_id, account_id, payment_date, amount, actor_id
		FROM interest_payments
		WHERE ($1 = '' OR account_id = $1)
		ORDER BY payment_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to retrieve interest payments", err)
	}
	defer rows.Close()

	var payments []model.InterestPayment
	for rows.Next() {
		payment := model.InterestPayment{}
		err := rows.Scan(&payment.PaymentID, &payment.AccountID, &payment.PaymentDate, &payment.Amount, &payment.ActorID)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrPersistence, "Failed to scan interest payment data", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPersistence, "Error occurred while iterating over interest payments", err)
	}
	return payments, nil
}
