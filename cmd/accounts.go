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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/hanbitbank/bankcore/model"
)

// accountsCommands creates the command for account listings.
func accountsCommands(b *bankcoreInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "account operations",
	}

	cmd.AddCommand(accountsListCommands(b))

	return cmd
}

func accountsListCommands(b *bankcoreInstance) *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list accounts, optionally filtered by owner",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			var accounts []model.Account
			var err error
			if ownerID != "" {
				accounts, err = b.core.GetAccountsByOwner(ctx, ownerID)
			} else {
				accounts, err = b.core.GetAllAccounts(ctx)
			}
			if err != nil {
				log.Printf("Error listing accounts: %v", err)
				return
			}

			out, _ := json.MarshalIndent(accounts, "", "  ")
			fmt.Println(string(out))
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "filter accounts by owner id")

	return cmd
}
