// Package prover parses prover command flags and runs uniqueness checks.
package prover

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/groundstate/hktheorem/internal/axioms"
	"github.com/groundstate/hktheorem/internal/derivation"
	"github.com/groundstate/hktheorem/internal/linarith"
	entrypoint "github.com/groundstate/hktheorem/internal/platform/cmd"
	platformerrors "github.com/groundstate/hktheorem/internal/platform/errors"
	"github.com/groundstate/hktheorem/internal/scenario"
	"github.com/groundstate/hktheorem/internal/storage"
	"github.com/groundstate/hktheorem/internal/storage/sqlite"
	"github.com/groundstate/hktheorem/internal/telemetry"
	"github.com/groundstate/hktheorem/internal/theory"
)

const tracerName = "github.com/groundstate/hktheorem/internal/cmd/prover"

// Config holds prover command configuration.
type Config struct {
	DBPath   string `env:"HKTHEOREM_DB_PATH" envDefault:"hktheorem.db"`
	Scenario string `env:"HKTHEOREM_SCENARIO"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the proof database")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "Lua scenario file (default: built-in scenarios)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run checks every configured scenario and persists the resulting proofs.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProver, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		scenarios, err := loadScenarios(cfg)
		if err != nil {
			return err
		}
		return checkScenarios(ctx, store, scenarios)
	})
}

func loadScenarios(cfg Config) ([]scenario.Scenario, error) {
	if cfg.Scenario == "" {
		return scenario.BuiltIn(), nil
	}
	sc, err := scenario.LoadFile(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	return []scenario.Scenario{sc}, nil
}

// proofStore is the storage surface the check loop needs.
type proofStore interface {
	storage.ProofStore
	storage.TelemetryStore
}

func checkScenarios(ctx context.Context, store proofStore, scenarios []scenario.Scenario) error {
	emitter := telemetry.NewEmitter(store)
	tracer := otel.Tracer(tracerName)

	for _, sc := range scenarios {
		ctx, span := tracer.Start(ctx, "check_uniqueness")
		span.SetAttributes(
			attribute.String("scenario", sc.Name),
			attribute.Int("probes", len(sc.Probes)),
		)

		result, err := derivation.CheckUniqueness(sc.V1, sc.V2, sc.Probes)
		if err != nil {
			span.End()
			code := failureCode(err)
			emitErr := emitter.Emit(ctx, storage.TelemetryEvent{
				Severity: string(telemetry.SeverityError),
				Code:     telemetry.CodeDerivationFailed,
				Message:  err.Error(),
				Metadata: map[string]string{
					"scenario":   sc.Name,
					"error_code": string(code),
				},
			})
			if emitErr != nil {
				log.Printf("emit telemetry: %v", emitErr)
			}
			return platformerrors.Wrap(code, fmt.Sprintf("check scenario %q", sc.Name), err)
		}

		id, err := store.AppendProof(ctx, proofRecord(sc, result))
		span.End()
		if err != nil {
			return fmt.Errorf("store proof for %q: %w", sc.Name, err)
		}

		code := telemetry.CodeProofClosed
		outcome := "contradiction derived; no shared ground-state density"
		if result.Equivalent {
			code = telemetry.CodeShiftEquivalence
			outcome = "potentials differ by a constant; ground state is shared"
		}
		if err := emitter.Emit(ctx, storage.TelemetryEvent{
			Severity: string(telemetry.SeverityInfo),
			Code:     code,
			Message:  outcome,
			Metadata: map[string]string{
				"scenario": sc.Name,
				"proof_id": fmt.Sprintf("%d", id),
			},
		}); err != nil {
			log.Printf("emit telemetry: %v", err)
		}
		log.Printf("%s: %s (proof %d, %d steps)", sc.Name, outcome, id, len(result.Proof.Steps))
	}
	return nil
}

// failureCode classifies a derivation failure by the sentinel it wraps, so
// callers and telemetry see a machine-readable code instead of message text.
func failureCode(err error) platformerrors.Code {
	switch {
	case errors.Is(err, theory.ErrMissingEvaluator):
		return platformerrors.CodeMissingEvaluator
	case errors.Is(err, theory.ErrSameWavefunction):
		return platformerrors.CodeSameWavefunction
	case errors.Is(err, theory.ErrGroundStateIdentity):
		return platformerrors.CodeGroundStateIdentity
	case errors.Is(err, axioms.ErrSamePotential):
		return platformerrors.CodeSamePotential
	case errors.Is(err, axioms.ErrInvalidWitness):
		return platformerrors.CodeInvalidWitness
	case errors.Is(err, axioms.ErrNotDistinct):
		return platformerrors.CodeNotDistinct
	case errors.Is(err, linarith.ErrNoStrictFacts):
		return platformerrors.CodeNoStrictFacts
	case errors.Is(err, linarith.ErrNotRefutable):
		return platformerrors.CodeNotRefutable
	default:
		return platformerrors.CodeUnknown
	}
}

func proofRecord(sc scenario.Scenario, result derivation.Result) storage.ProofRecord {
	record := storage.ProofRecord{
		Theorem:    result.Theorem,
		Scenario:   sc.Name,
		Potential1: sc.V1.Name(),
		Potential2: sc.V2.Name(),
		Equivalent: result.Equivalent,
		Closed:     result.Proof.Closed,
	}
	for i, step := range result.Proof.Steps {
		rec := storage.StepRecord{
			Index:   i,
			Code:    string(step.Code),
			Message: step.Message,
		}
		if step.Fact != nil {
			rec.Fact = step.Fact.String()
		}
		record.Steps = append(record.Steps, rec)
	}
	return record
}
