package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackclub/iplace/internal/core/domain"
)

func newGridFixture() (*GridService, *stubUserRepo, *stubFrameRepo, *stubTileRepo) {
	users := newStubUserRepo()
	frames := newStubFrameRepo()
	tiles := newStubTileRepo(frames)
	return NewGridService(tiles, frames, users, zerolog.Nop()), users, frames, tiles
}

func addTile(tiles *stubTileRepo, frameID int64, x, y int, pending bool) {
	tiles.nextID++
	tiles.tiles = append(tiles.tiles, &domain.Tile{
		ID:       tiles.nextID,
		X:        x,
		Y:        y,
		FrameID:  frameID,
		IsPending: pending,
		PlacedAt: time.Now().UTC(),
	})
}

func TestBuildView_AnonymousSeesPublishedOnly(t *testing.T) {
	svc, users, frames, tiles := newGridFixture()
	alice := users.add("U1", "alice")
	bob := users.add("U2", "bob")
	fa := frames.approved(alice.ID, "https://example.com/a", 36000)
	fb := frames.approved(bob.ID, "https://example.com/b", 36000)
	fp := frames.approved(bob.ID, "https://example.com/pending", 36000)
	fp.IsPending = true

	addTile(tiles, fa.ID, 0, 0, false)
	addTile(tiles, fa.ID, 1, 0, false)
	addTile(tiles, fb.ID, 5, 5, false)
	addTile(tiles, fp.ID, 9, 9, false) // frame pending: hidden
	addTile(tiles, fa.ID, 2, 0, true)  // individually pending: hidden from strangers

	view, err := svc.BuildView(context.Background(), nil)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if len(view.Tiles) != 3 {
		t.Fatalf("expected 3 published tiles, got %d", len(view.Tiles))
	}
	if len(view.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(view.Frames))
	}
	if len(view.Authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(view.Authors))
	}
	if len(view.PendingTiles) != 0 {
		t.Fatalf("anonymous view must carry no pending tiles")
	}
}

func TestBuildView_ResolvesEachFrameAndAuthorOnce(t *testing.T) {
	svc, users, frames, tiles := newGridFixture()
	alice := users.add("U1", "alice")
	fa := frames.approved(alice.ID, "https://example.com/a", 36000)
	fb := frames.approved(alice.ID, "https://example.com/b", 36000)

	addTile(tiles, fa.ID, 0, 0, false)
	addTile(tiles, fa.ID, 1, 0, false)
	addTile(tiles, fb.ID, 5, 5, false)

	view, err := svc.BuildView(context.Background(), nil)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if len(view.Frames) != 2 {
		t.Fatalf("expected 2 distinct frames, got %d", len(view.Frames))
	}
	if len(view.Authors) != 1 {
		t.Fatalf("expected a single author, got %d", len(view.Authors))
	}
	if view.Authors[0].Name != "alice" {
		t.Fatalf("unexpected author: %+v", view.Authors[0])
	}
}

func TestBuildView_RequesterSeesOwnPendingTiles(t *testing.T) {
	svc, users, frames, tiles := newGridFixture()
	alice := users.add("U1", "alice")
	bob := users.add("U2", "bob")
	fa := frames.approved(alice.ID, "https://example.com/a", 36000)
	fb := frames.approved(bob.ID, "https://example.com/b", 36000)

	addTile(tiles, fa.ID, 0, 0, true) // alice's unpublished work
	addTile(tiles, fb.ID, 5, 5, true) // bob's unpublished work

	view, err := svc.BuildView(context.Background(), alice)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if len(view.PendingTiles) != 1 {
		t.Fatalf("expected alice's pending tile only, got %d", len(view.PendingTiles))
	}
	if view.PendingTiles[0].FrameID != fa.ID {
		t.Fatalf("pending tile belongs to wrong frame: %+v", view.PendingTiles[0])
	}
	// The pending tile's frame is still resolved into the view.
	if len(view.Frames) != 1 || view.Frames[0].ID != fa.ID {
		t.Fatalf("expected alice's frame resolved, got %+v", view.Frames)
	}
}

func TestBuildView_RequesterSeesOwnTilelessFrames(t *testing.T) {
	svc, users, frames, _ := newGridFixture()
	alice := users.add("U1", "alice")
	bob := users.add("U2", "bob")
	fresh := frames.approved(alice.ID, "https://example.com/fresh", 36000)
	frames.approved(bob.ID, "https://example.com/other", 36000)

	// Anonymous: a frame with no tiles is invisible.
	view, err := svc.BuildView(context.Background(), nil)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if len(view.Frames) != 0 {
		t.Fatalf("tileless frames must not appear anonymously, got %+v", view.Frames)
	}

	// The author sees their own fresh frame immediately, but not bob's.
	view, err = svc.BuildView(context.Background(), alice)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if len(view.Frames) != 1 || view.Frames[0].ID != fresh.ID {
		t.Fatalf("expected alice's fresh frame only, got %+v", view.Frames)
	}
}

func TestBuildView_DanglingFrameIsIntegrityFault(t *testing.T) {
	svc, _, _, tiles := newGridFixture()
	addTile(tiles, 777, 0, 0, false) // no such frame

	_, err := svc.BuildView(context.Background(), nil)
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected integrity fault, got %v", err)
	}
}

func TestBuildView_DanglingOwnerIsIntegrityFault(t *testing.T) {
	svc, _, frames, tiles := newGridFixture()
	f := frames.approved(777, "https://example.com/ghost", 36000) // no such user
	addTile(tiles, f.ID, 0, 0, false)

	_, err := svc.BuildView(context.Background(), nil)
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected integrity fault, got %v", err)
	}
}

func TestBuildView_NeverExposesBalances(t *testing.T) {
	svc, users, frames, tiles := newGridFixture()
	alice := users.add("U1", "alice")
	fa := frames.approved(alice.ID, "https://example.com/a", 36000)
	fa.ProjectNames = "secret-project"
	addTile(tiles, fa.ID, 0, 0, false)

	view, err := svc.BuildView(context.Background(), nil)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	// The projection carries only id, owner and url; this is a compile-time
	// property of GridFrame, asserted here for the output values.
	f := view.Frames[0]
	if f.ID != fa.ID || f.OwnerID != alice.ID || f.URL != fa.URL {
		t.Fatalf("unexpected frame projection: %+v", f)
	}
}
