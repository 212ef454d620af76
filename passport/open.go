package passport

import (
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/skillpassorg/libskillpass-go/config"
)

// Open builds a durable Ledger from application config: validates the
// settings, applies the log level, and opens the bolt store under the
// data directory. Close the Ledger to release the store.
func Open(cfg config.Config, opts ...Option) (*Ledger, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" {
		if err := logging.SetLogLevel("passport", cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("passport: set log level: %w", err)
		}
	}

	store, err := OpenBoltStore(cfg.ResolvedStorePath())
	if err != nil {
		return nil, err
	}
	return NewLedger(store, opts...), nil
}
