// Package sandbox is the development payment processor: every charge
// succeeds and gets a locally generated reference. Production deployments
// swap in a real gateway behind the same interface.
package sandbox

import (
	"github.com/slotbook/backend/internal/services/payment"
	"github.com/slotbook/backend/internal/utils"
)

// SandboxProcessor approves all charges
type SandboxProcessor struct{}

// NewSandboxProcessor creates a new sandbox processor
func NewSandboxProcessor() *SandboxProcessor {
	return &SandboxProcessor{}
}

// Charge approves the payment and returns a generated reference
func (p *SandboxProcessor) Charge(req payment.ChargeRequest) (*payment.ChargeResult, error) {
	return &payment.ChargeResult{
		Reference: utils.GenerateReference("SBX"),
		Succeeded: true,
	}, nil
}
