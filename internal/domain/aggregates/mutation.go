package aggregates

import "github.com/google/uuid"

// Mutation is embedded in every write input.
//
// ActorID is the authenticated caller. DryRun runs every read, authorization and
// validation step and discards the writes.
type Mutation struct {
	ActorID uuid.UUID
	DryRun  bool
}
