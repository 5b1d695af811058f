package bonus

import (
	"fmt"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

type RedemptionState string

const (
	StateRequested RedemptionState = "requested"
	StateProcessed RedemptionState = "processed"
)

// Process is the only transition: requested -> processed.
func (s RedemptionState) Process() (RedemptionState, error) {
	switch s {
	case StateRequested:
		return StateProcessed, nil
	case StateProcessed:
		return s, serviceerrs.ErrAlreadyProcessed
	}
	return s, fmt.Errorf("unknown redemption state %q", string(s))
}
