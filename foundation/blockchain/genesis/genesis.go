// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date              time.Time `json:"date"`
	ChainID           uint16    `json:"chain_id"`            // The chain id represents an unique id for this running instance.
	Difficulty        uint16    `json:"difficulty"`          // How many leading zeros a block hash needs.
	MiningReward      float64   `json:"mining_reward"`       // Reward for mining a block.
	MaxPoolSize       int       `json:"max_pool_size"`       // Max number of pending transactions, zero is unbounded.
	MaxMiningAttempts uint64    `json:"max_mining_attempts"` // Max nonces tried before giving up, zero is unbounded.
}

// Default returns the genesis settings used when no file is provided.
func Default() Genesis {
	return Genesis{
		ChainID:      1,
		Difficulty:   4,
		MiningReward: 12.5,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// keep their default. An empty path or a missing file returns the defaults.
func Load(path string) (Genesis, error) {
	genesis := Default()
	if path == "" {
		return genesis, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return genesis, nil
		}
		return Genesis{}, err
	}

	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the settings are usable by a node.
func (g Genesis) Validate() error {
	if g.Difficulty == 0 || g.Difficulty > 64 {
		return fmt.Errorf("difficulty must be between 1 and 64, got %d", g.Difficulty)
	}

	if g.MiningReward < 0 {
		return errors.New("mining reward can't be negative")
	}

	if g.MaxPoolSize < 0 {
		return errors.New("max pool size can't be negative")
	}

	return nil
}
