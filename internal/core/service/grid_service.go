package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

// GridService reconstructs the public read model of the grid from the tile,
// frame and user relations.
type GridService struct {
	tiles  ports.TileRepository
	frames ports.FrameRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewGridService(tiles ports.TileRepository, frames ports.FrameRepository, users ports.UserRepository, logger zerolog.Logger) *GridService {
	return &GridService{tiles: tiles, frames: frames, users: users, logger: logger}
}

// BuildView aggregates all published tiles plus, when requester is present,
// the requester's own pending tiles. Every distinct frame and author is
// resolved exactly once; a dangling reference is a fatal integrity fault of
// the store, never silently dropped.
func (s *GridService) BuildView(ctx context.Context, requester *domain.User) (*ports.GridView, error) {
	published, err := s.tiles.ListVisible(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*domain.Tile
	if requester != nil {
		pending, err = s.tiles.ListPendingByOwner(ctx, requester.ID)
		if err != nil {
			return nil, err
		}
	}

	view := &ports.GridView{
		Tiles:        make([]ports.GridTile, 0, len(published)),
		Frames:       []ports.GridFrame{},
		Authors:      []ports.GridAuthor{},
		PendingTiles: make([]ports.GridTile, 0, len(pending)),
	}

	seenFrames := make(map[int64]struct{})
	seenAuthors := make(map[int64]struct{})

	resolve := func(t *domain.Tile) error {
		if _, ok := seenFrames[t.FrameID]; ok {
			return nil
		}

		frame, err := s.frames.FindByID(ctx, t.FrameID)
		if err != nil {
			if errors.Is(err, domain.ErrFrameNotFound) {
				return fmt.Errorf("%w: tile (%d, %d) refers to missing frame %d", domain.ErrIntegrity, t.X, t.Y, t.FrameID)
			}
			return err
		}
		seenFrames[frame.ID] = struct{}{}
		view.Frames = append(view.Frames, ports.GridFrame{ID: frame.ID, OwnerID: frame.OwnerID, URL: frame.URL})

		if _, ok := seenAuthors[frame.OwnerID]; ok {
			return nil
		}
		author, err := s.users.FindByID(ctx, frame.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("%w: frame %s (%d) is authored by missing user %d", domain.ErrIntegrity, frame.URL, frame.ID, frame.OwnerID)
			}
			return err
		}
		seenAuthors[author.ID] = struct{}{}
		view.Authors = append(view.Authors, ports.GridAuthor{ID: author.ID, Name: author.Name, Avatar: author.Avatar})
		return nil
	}

	for _, t := range published {
		if err := resolve(t); err != nil {
			return nil, err
		}
		view.Tiles = append(view.Tiles, ports.GridTile{X: t.X, Y: t.Y, FrameID: t.FrameID})
	}
	for _, t := range pending {
		if err := resolve(t); err != nil {
			return nil, err
		}
		view.PendingTiles = append(view.PendingTiles, ports.GridTile{X: t.X, Y: t.Y, FrameID: t.FrameID})
	}

	// The requester's own frames appear even before their first tile, so a
	// fresh frame is immediately visible to its author.
	if requester != nil {
		own, err := s.frames.ListByOwner(ctx, requester.ID)
		if err != nil {
			return nil, err
		}
		for _, frame := range own {
			if _, ok := seenFrames[frame.ID]; ok {
				continue
			}
			seenFrames[frame.ID] = struct{}{}
			view.Frames = append(view.Frames, ports.GridFrame{ID: frame.ID, OwnerID: frame.OwnerID, URL: frame.URL})
		}
	}

	return view, nil
}
