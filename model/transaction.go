package model

import (
	"encoding/json"
	"time"
)

// TransactionType classifies a journal entry. Transfers always produce two
// entries, one transfer_out and one transfer_in, so each account's history
// stays self-contained.
type TransactionType string

const (
	TypeDeposit     TransactionType = "deposit"
	TypeWithdrawal  TransactionType = "withdrawal"
	TypeTransferOut TransactionType = "transfer_out"
	TypeTransferIn  TransactionType = "transfer_in"
)

// Transaction is one immutable journal entry. Amount is signed: credits are
// positive, debits negative. BalanceAfter snapshots the account balance as of
// this entry's commit.
type Transaction struct {
	ID              int64           `json:"-"`
	TransactionID   string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Type            TransactionType `json:"type"`
	Amount          int64           `json:"amount"`
	BalanceAfter    int64           `json:"balance_after"`
	CounterpartID   string          `json:"counterpart_id,omitempty"`
	CounterpartName string          `json:"counterpart_name,omitempty"`
	Memo            string          `json:"memo,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}

// SignedAmount returns the amount with the sign its type implies, regardless
// of how the caller populated Amount.
func SignedAmount(txnType TransactionType, amount int64) int64 {
	switch txnType {
	case TypeWithdrawal, TypeTransferOut:
		if amount > 0 {
			return -amount
		}
	case TypeDeposit, TypeTransferIn:
		if amount < 0 {
			return -amount
		}
	}
	return amount
}
