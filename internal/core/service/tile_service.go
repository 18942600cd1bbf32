package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/api/metrics"
	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

// TileService is the placement engine: it decides whether a proposed tile is
// legal and commits it atomically through the repository.
type TileService struct {
	tiles  ports.TileRepository
	frames ports.FrameRepository
	logger zerolog.Logger
}

func NewTileService(tiles ports.TileRepository, frames ports.FrameRepository, logger zerolog.Logger) *TileService {
	return &TileService{tiles: tiles, frames: frames, logger: logger}
}

// Place validates and commits a placement. Checks run in a fixed order so
// each failure class is distinct: existence, frame state, ownership,
// budget, adjacency, then the atomic commit. The store's unique-cell
// constraint remains the final arbiter under concurrent placements.
func (s *TileService) Place(ctx context.Context, input ports.PlaceTileInput) (*ports.PlacementResult, error) {
	// 1. The frame must exist.
	frame, err := s.frames.FindByID(ctx, input.FrameID)
	if err != nil {
		return nil, err
	}

	// 2. Pending frames are frozen, whatever their balance looks like.
	if frame.IsPending {
		return nil, s.reject("pending_frame", domain.ErrFramePending)
	}

	// 3. Only the owner places on a frame.
	if frame.OwnerID != input.RequesterID {
		return nil, s.reject("forbidden", domain.ErrForbidden)
	}

	// 4. Every tile costs one hour of approved time.
	required := int64(frame.PlacedTiles+1) * domain.TileCost
	if frame.ApprovedTime == nil || *frame.ApprovedTime < required {
		return nil, s.reject("budget", domain.ErrBudgetExceeded)
	}

	// 5. Adjacency. The anchor tile needs a globally free cell; later tiles
	// need a same-frame von Neumann neighbor and may creep over cells
	// occupied by other frames.
	if err := s.checkAdjacency(ctx, frame.ID, input.X, input.Y); err != nil {
		return nil, err
	}

	// 6. Commit. Tile insert and counter increment land together or not at
	// all; the budget and pending gates are re-checked inside the same
	// transaction to close the check-then-act race.
	tile, updated, err := s.tiles.Place(ctx, &domain.Tile{X: input.X, Y: input.Y, FrameID: frame.ID})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPositionOccupied):
			return nil, s.reject("occupied", err)
		case errors.Is(err, domain.ErrBudgetExceeded):
			return nil, s.reject("budget", err)
		}
		return nil, err
	}

	metrics.TilesPlacedTotal.WithLabelValues("player").Inc()
	s.logger.Info().
		Int64("frame_id", frame.ID).
		Int("x", tile.X).
		Int("y", tile.Y).
		Int("placed_tiles", updated.PlacedTiles).
		Msg("tile placed")

	return &ports.PlacementResult{
		Tile:          tile,
		Frame:         updated,
		RemainingTime: updated.RemainingTime(),
	}, nil
}

func (s *TileService) checkAdjacency(ctx context.Context, frameID int64, x, y int) error {
	own, err := s.tiles.ListByFrame(ctx, frameID)
	if err != nil {
		return err
	}

	if len(own) == 0 {
		// Anchor placement: the cell must be free of tiles from any frame.
		_, err := s.tiles.FindAt(ctx, x, y)
		if err == nil {
			return s.reject("occupied", domain.ErrPositionOccupied)
		}
		if !errors.Is(err, domain.ErrTileNotFound) {
			return err
		}
		return nil
	}

	for _, t := range own {
		if t.AdjacentTo(x, y) {
			return nil
		}
	}
	return s.reject("not_adjacent", domain.ErrNotAdjacent)
}

// PlacePending force-places an individually pending tile for the automation
// boundary. No ownership, state, budget or adjacency checks, and the frame
// counter stays untouched; only the unique-cell constraint applies.
func (s *TileService) PlacePending(ctx context.Context, frameID int64, x, y int) (*domain.Tile, error) {
	if _, err := s.frames.FindByID(ctx, frameID); err != nil {
		return nil, err
	}

	tile, err := s.tiles.PlacePending(ctx, &domain.Tile{X: x, Y: y, FrameID: frameID, IsPending: true})
	if err != nil {
		if errors.Is(err, domain.ErrPositionOccupied) {
			return nil, s.reject("occupied", err)
		}
		return nil, err
	}

	metrics.TilesPlacedTotal.WithLabelValues("forced").Inc()
	s.logger.Info().
		Int64("frame_id", frameID).
		Int("x", x).
		Int("y", y).
		Msg("pending tile force-placed")

	return tile, nil
}

func (s *TileService) reject(reason string, err error) error {
	metrics.PlacementsRejectedTotal.WithLabelValues(reason).Inc()
	return err
}
