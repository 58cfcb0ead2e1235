// Package errors provides structured error handling for the prover.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Theory errors
	CodeMissingEvaluator    Code = "POTENTIAL_MISSING_EVALUATOR"
	CodeSameWavefunction    Code = "WAVEFUNCTION_SAME"
	CodeGroundStateIdentity Code = "GROUND_STATE_IDENTITY"
	CodeInvalidWitness      Code = "SHIFT_WITNESS_INVALID"

	// Axiom errors
	CodeNotDistinct   Code = "AXIOM_STATES_NOT_DISTINCT"
	CodeSamePotential Code = "AXIOM_SAME_POTENTIAL"

	// Linear arithmetic errors
	CodeNoStrictFacts Code = "LINARITH_NO_STRICT_FACTS"
	CodeNotRefutable  Code = "LINARITH_NOT_REFUTABLE"

	// Scenario errors
	CodeScenarioInvalid Code = "SCENARIO_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
