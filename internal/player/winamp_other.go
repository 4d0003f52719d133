//go:build !windows

package player

import (
	"fmt"

	"github.com/genricoloni/ampresence/internal/domain"
	"go.uber.org/zap"
)

// NewWinamp returns an error on non-Windows platforms
func NewWinamp(logger *zap.Logger, settings domain.PlayerSettings) (domain.Player, error) {
	return nil, fmt.Errorf("Winamp is only supported on Windows systems")
}
