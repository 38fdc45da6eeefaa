package domain

// IdempotenceLevel classifies how safely an operation can be retried.
type IdempotenceLevel string

const (
	// IdempotenceAlways means retries never repeat the side effect.
	IdempotenceAlways IdempotenceLevel = "idempotent"

	// IdempotenceConditional means retries are safe only when the caller
	// supplies the key named by the contract's RequiresKey; without it every
	// call executes independently.
	IdempotenceConditional IdempotenceLevel = "conditionally_idempotent"

	// IdempotenceNever means every invocation repeats the side effect.
	IdempotenceNever IdempotenceLevel = "not_idempotent"
)

// IdempotenceContract is the machine-readable retry-safety description of an
// operation. It is three-valued rather than a boolean so a conditional
// guarantee can never be read as an unconditional one. RequiresKey names the
// request header that activates the guarantee and is set only when Level is
// IdempotenceConditional.
type IdempotenceContract struct {
	Level       IdempotenceLevel `json:"level"`
	RequiresKey string           `json:"requires_key,omitempty"`
}

// Capability describes one exposed operation and its retry-safety contract.
type Capability struct {
	Operation   string              `json:"operation"`
	Idempotence IdempotenceContract `json:"idempotence"`
}

// SendCapability describes the generate-and-send operation. It is safe to
// retry only when the caller supplies the idempotency key header, so the
// contract is conditional, never plain idempotent.
func SendCapability(idempotencyKeyHeader string) Capability {
	return Capability{
		Operation: "report.send",
		Idempotence: IdempotenceContract{
			Level:       IdempotenceConditional,
			RequiresKey: idempotencyKeyHeader,
		},
	}
}
