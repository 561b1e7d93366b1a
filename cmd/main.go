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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hanbitbank/bankcore"
	"github.com/hanbitbank/bankcore/config"
	"github.com/hanbitbank/bankcore/database"
)

// Bankcore represents the CLI application, encapsulating the root Cobra command.
type Bankcore struct {
	cmd *cobra.Command
}

// bankcoreInstance holds the engine instance and its configuration for use by
// the subcommands.
type bankcoreInstance struct {
	core *bankcore.Bankcore
	cnf  *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and initializes the engine before any command
// runs.
func preRun(app *bankcoreInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("bankcore.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		core, err := setupBankcore(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.core = core
		app.cnf = cnf
		return nil
	}
}

// setupBankcore creates the engine over a fresh datasource connection.
func setupBankcore(cfg *config.Configuration) (*bankcore.Bankcore, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	core, err := bankcore.NewBankcore(db)
	if err != nil {
		return nil, fmt.Errorf("error creating bankcore: %v", err)
	}
	return core, nil
}

// NewCLI creates the command-line interface for the bankcore application.
func NewCLI() *Bankcore {
	var configFile string
	b := &bankcoreInstance{}

	var rootCmd = &cobra.Command{
		Use:   "bankcore",
		Short: "Banking core engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./bankcore.json", "Configuration file for bankcore")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(schedulerCommands(b))
	rootCmd.AddCommand(accrueCommands(b))
	rootCmd.AddCommand(accountsCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &Bankcore{cmd: rootCmd}
}

func (w Bankcore) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
