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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_TRIGGER_HOUR     = 14
	DEFAULT_POLL_INTERVAL    = 3600 // seconds; the accrual window check is hourly
	DEFAULT_MINIMUM_AMOUNT   = 1000 // minor currency units
	DEFAULT_STOP_TIMEOUT_SEC = 5
)

var ConfigStore atomic.Value

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"BANKCORE_DATA_SOURCE_DNS"`
}

type SchedulerConfig struct {
	TriggerHour     int `json:"trigger_hour" envconfig:"BANKCORE_SCHEDULER_TRIGGER_HOUR"`
	PollIntervalSec int `json:"poll_interval_sec" envconfig:"BANKCORE_SCHEDULER_POLL_INTERVAL_SEC"`
	StopTimeoutSec  int `json:"stop_timeout_sec" envconfig:"BANKCORE_SCHEDULER_STOP_TIMEOUT_SEC"`
}

type PolicyConfig struct {
	MinimumAmount int64 `json:"minimum_amount" envconfig:"BANKCORE_POLICY_MINIMUM_AMOUNT"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"BANKCORE_PROJECT_NAME"`
	DataSource  DataSourceConfig `json:"data_source"`
	Scheduler   SchedulerConfig  `json:"scheduler"`
	Policy      PolicyConfig     `json:"policy"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("bankcore", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called bankcore.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Scheduler.TriggerHour < 0 || cnf.Scheduler.TriggerHour > 23 {
		return errors.New("scheduler trigger hour must be between 0 and 23")
	}

	cnf.addDefaults()
	return nil
}

func (cnf *Configuration) addDefaults() {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Bankcore"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)

	if cnf.Scheduler.TriggerHour == 0 {
		cnf.Scheduler.TriggerHour = DEFAULT_TRIGGER_HOUR
	}
	if cnf.Scheduler.PollIntervalSec <= 0 {
		cnf.Scheduler.PollIntervalSec = DEFAULT_POLL_INTERVAL
	}
	if cnf.Scheduler.StopTimeoutSec <= 0 {
		cnf.Scheduler.StopTimeoutSec = DEFAULT_STOP_TIMEOUT_SEC
	}
	if cnf.Policy.MinimumAmount <= 0 {
		cnf.Policy.MinimumAmount = DEFAULT_MINIMUM_AMOUNT
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.addDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
