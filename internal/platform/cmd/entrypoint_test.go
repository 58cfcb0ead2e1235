package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	DBPath   string `env:"CMD_TEST_DB_PATH" envDefault:"proofs.db"`
	Scenario string `env:"CMD_TEST_SCENARIO" envDefault:"builtin"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_DB_PATH", "env.db")
	t.Setenv("CMD_TEST_SCENARIO", "env-scenario")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.DBPath, "db", cfgRef.DBPath, "database path")
	fs.StringVar(&cfgRef.Scenario, "scenario", cfgRef.Scenario, "scenario path")

	if err := ParseArgs(fs, []string{"-db", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.DBPath != "flag.db" {
		t.Fatalf("expected flag value for db path, got %q", cfgRef.DBPath)
	}
	if cfgRef.Scenario != "env-scenario" {
		t.Fatalf("expected env default scenario, got %q", cfgRef.Scenario)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_DB_PATH", "configarg.db")
	t.Setenv("CMD_TEST_SCENARIO", "configarg-scenario")

	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfgRef.DBPath, "db", "", "database path")
	fs.StringVar(&cfgRef.Scenario, "scenario", "", "scenario path")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"-db", "flag2.db"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.DBPath != "flag2.db" {
		t.Fatalf("expected parsed flag db path, got %q", cfgRef.DBPath)
	}
	if cfgRef.Scenario != "configarg-scenario" {
		t.Fatalf("expected env default scenario, got %q", cfgRef.Scenario)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(nil, "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(nil, ServiceProver, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
