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
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hanbitbank/bankcore"
)

// schedulerCommands creates the command that runs the accrual scheduler in the
// foreground until interrupted.
func schedulerCommands(b *bankcoreInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "run the automatic interest accrual scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			scheduler, err := bankcore.NewScheduler(b.core)
			if err != nil {
				log.Fatalf("Error creating scheduler: %v", err)
			}

			scheduler.Start()
			logrus.Info(scheduler.NextExecutionInfo())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			scheduler.Stop()
		},
	}

	return cmd
}
