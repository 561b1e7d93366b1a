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
	"time"

	"github.com/spf13/cobra"

	"github.com/hanbitbank/bankcore/model"
)

// accrueCommands creates the command for interest accrual operations run by an
// operator rather than the scheduler.
func accrueCommands(b *bankcoreInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accrue",
		Short: "interest accrual operations",
	}

	cmd.AddCommand(accrueRunCommands(b))
	cmd.AddCommand(accrueListCommands(b))

	return cmd
}

// accrueRunCommands creates the command for a manual bulk interest run. The
// run is attributed to MANUAL_OVERRIDE with the operator's reason, so the
// payment records distinguish it from scheduler runs.
func accrueRunCommands(b *bankcoreInstance) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "apply interest to every eligible account now",
		Run: func(cmd *cobra.Command, args []string) {
			if reason == "" {
				log.Println("a --reason is required for a manual interest run")
				return
			}

			summary, err := b.core.RunBulkInterest(context.Background(), model.ManualOverrideActor(reason))
			if err != nil {
				log.Printf("Error running bulk interest: %v", err)
				return
			}

			out, _ := json.MarshalIndent(summary, "", "  ")
			fmt.Println(string(out))
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason code recorded on every payment of this run")

	return cmd
}

// accrueListCommands creates the command for previewing accounts due for
// interest without applying anything.
func accrueListCommands(b *bankcoreInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list accounts currently due for interest",
		Run: func(cmd *cobra.Command, args []string) {
			quotes, err := b.core.ListEligible(context.Background(), time.Now())
			if err != nil {
				log.Printf("Error listing eligible accounts: %v", err)
				return
			}

			if len(quotes) == 0 {
				fmt.Println("No accounts are due for interest.")
				return
			}
			out, _ := json.MarshalIndent(quotes, "", "  ")
			fmt.Println(string(out))
		},
	}

	return cmd
}
