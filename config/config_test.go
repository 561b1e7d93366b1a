package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{
		DataSource: DataSourceConfig{
			Dns: "",
		},
	}

	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "data source DNS is required" {
		t.Errorf("Expected data source DNS required error, got %v", err)
	}

	cnf = Configuration{
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432/bankcore",
		},
		Scheduler: SchedulerConfig{
			TriggerHour: 25,
		},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil {
		t.Errorf("Expected trigger hour range error, got nil")
	}

	cnf = Configuration{
		ProjectName: "Test Project",
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432/bankcore",
		},
	}
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Scheduler.TriggerHour != DEFAULT_TRIGGER_HOUR {
		t.Errorf("Expected default trigger hour %d, got %d", DEFAULT_TRIGGER_HOUR, cnf.Scheduler.TriggerHour)
	}
	if cnf.Scheduler.PollIntervalSec != DEFAULT_POLL_INTERVAL {
		t.Errorf("Expected default poll interval %d, got %d", DEFAULT_POLL_INTERVAL, cnf.Scheduler.PollIntervalSec)
	}
	if cnf.Policy.MinimumAmount != DEFAULT_MINIMUM_AMOUNT {
		t.Errorf("Expected default minimum amount %d, got %d", DEFAULT_MINIMUM_AMOUNT, cnf.Policy.MinimumAmount)
	}
}

func TestInitConfigFromFile(t *testing.T) {
	fileContent := Configuration{
		ProjectName: "File Project",
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432/bankcore",
		},
		Scheduler: SchedulerConfig{
			TriggerHour:     10,
			PollIntervalSec: 60,
		},
	}

	data, err := json.Marshal(fileContent)
	if err != nil {
		t.Fatalf("Error marshaling config: %v", err)
	}

	f, err := os.CreateTemp(t.TempDir(), "bankcore*.json")
	if err != nil {
		t.Fatalf("Error creating temp file: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Error writing temp file: %v", err)
	}
	f.Close()

	if err := InitConfig(f.Name()); err != nil {
		t.Fatalf("Error initializing config: %v", err)
	}

	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Error fetching config: %v", err)
	}
	if cnf.ProjectName != "File Project" {
		t.Errorf("Expected project name from file, got %s", cnf.ProjectName)
	}
	if cnf.Scheduler.TriggerHour != 10 {
		t.Errorf("Expected trigger hour 10, got %d", cnf.Scheduler.TriggerHour)
	}
}

func TestMockConfig(t *testing.T) {
	MockConfig(&Configuration{})
	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Error fetching mocked config: %v", err)
	}
	if cnf.Policy.MinimumAmount != DEFAULT_MINIMUM_AMOUNT {
		t.Errorf("Expected mocked config to carry defaults, got %d", cnf.Policy.MinimumAmount)
	}
}
