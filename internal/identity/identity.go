// Package identity persists the cosmetic identity of the four seats (names,
// colors) and the configured starting life. It is the only durable state of
// the tracker; game progress is never stored.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SeatCount is the fixed number of seats at the table.
const SeatCount = 4

// DefaultStartingLife is the commander starting life total.
const DefaultStartingLife = 40

var (
	// DefaultNames are used for seats with no stored name.
	DefaultNames = [SeatCount]string{"Player 1", "Player 2", "Player 3", "Player 4"}
	// DefaultColors are used for seats with no stored color.
	DefaultColors = [SeatCount]string{"#1A4A8A", "#8A1A1A", "#1A6A2A", "#5A1A8A"}
)

// ErrNotFound is returned by Store.Load when nothing has been saved yet.
var ErrNotFound = errors.New("identity not found")

// PlayerIdentity is the persisted cosmetic part of a seat.
type PlayerIdentity struct {
	ID    string `toml:"id" json:"id"`
	Name  string `toml:"name" json:"name"`
	Color string `toml:"color" json:"color"`
}

// Identity is the shape handed to and read from a Store.
type Identity struct {
	Players      []PlayerIdentity `toml:"players" json:"players"`
	StartingLife int              `toml:"starting_life" json:"startingLife"`
}

// SeatID returns the stable player id for a seat index.
func SeatID(seat int) string {
	return fmt.Sprintf("player-%d", seat+1)
}

// Default returns the built-in identity used when nothing is stored.
func Default() Identity {
	players := make([]PlayerIdentity, SeatCount)
	for i := range players {
		players[i] = PlayerIdentity{
			ID:    SeatID(i),
			Name:  DefaultNames[i],
			Color: DefaultColors[i],
		}
	}
	return Identity{
		Players:      players,
		StartingLife: DefaultStartingLife,
	}
}

// Normalize returns a copy with exactly SeatCount players. Missing seats,
// blank names and blank colors fall back to defaults, ids are forced to the
// seat's stable id, and a non-positive starting life becomes the default.
func (id Identity) Normalize() Identity {
	out := Default()
	for i := 0; i < SeatCount && i < len(id.Players); i++ {
		p := id.Players[i]
		if name := strings.TrimSpace(p.Name); name != "" {
			out.Players[i].Name = name
		}
		if color := strings.TrimSpace(p.Color); color != "" {
			out.Players[i].Color = color
		}
	}
	if id.StartingLife > 0 {
		out.StartingLife = id.StartingLife
	}
	return out
}

// Clone returns a deep copy.
func (id Identity) Clone() Identity {
	return Identity{
		Players:      append([]PlayerIdentity(nil), id.Players...),
		StartingLife: id.StartingLife,
	}
}

// Store loads and saves the identity.
type Store interface {
	Load(ctx context.Context) (Identity, error)
	Save(ctx context.Context, id Identity) error
	Close() error
}

// LoadOrDefault loads the stored identity, falling back to Default when
// nothing is stored or the store fails. The result is always normalized.
func LoadOrDefault(ctx context.Context, store Store, logger *zap.Logger) Identity {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		return Default()
	}
	id, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Info("no stored identity, using defaults")
		} else {
			logger.Warn("failed to load identity, using defaults", zap.Error(err))
		}
		return Default()
	}
	return id.Normalize()
}
