//go:build !linux

package player

import (
	"fmt"

	"github.com/genricoloni/ampresence/internal/domain"
	"go.uber.org/zap"
)

// NewMPRIS returns an error on non-Linux platforms
func NewMPRIS(logger *zap.Logger, settings domain.PlayerSettings, connect DBusConnector) (domain.Player, error) {
	return nil, fmt.Errorf("MPRIS is only supported on Linux systems")
}
