package player

import (
	"fmt"

	"github.com/genricoloni/ampresence/internal/domain"
	"go.uber.org/zap"
)

// Supported values of the [player] kind setting
const (
	KindWinamp = "winamp"
	KindMPD    = "mpd"
	KindMPRIS  = "mpris"
)

// New creates the player adapter named by the configured player kind
func New(logger *zap.Logger, cfg domain.Config) (domain.Player, error) {
	settings := cfg.GetPlayerSettings()

	var (
		p   domain.Player
		err error
	)
	switch settings.Kind {
	case KindWinamp:
		p, err = NewWinamp(logger, settings)
	case KindMPD:
		p = NewMPD(logger, settings, nil)
	case KindMPRIS:
		p, err = NewMPRIS(logger, settings, nil)
	default:
		return nil, fmt.Errorf("unknown player kind %q", settings.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s player: %w", settings.Kind, err)
	}

	logger.Info("Player adapter selected", zap.String("kind", settings.Kind))
	return p, nil
}
