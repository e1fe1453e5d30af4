package flows

import (
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
)

// Service runs the proposal flows through a shared gateway.
type Service struct {
	gw *inference.Gateway
}

// NewService creates a flow service.
func NewService(gw *inference.Gateway) *Service {
	return &Service{gw: gw}
}
