package service

// Shared in-memory stubs used by the service tests. They mirror the
// behavior of the sqlite repositories closely enough that the services
// cannot tell the difference, including the transactional guards of
// TileRepository.Place.

import (
	"context"
	"sort"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) add(slackID, name string) *domain.User {
	r.nextID++
	u := &domain.User{ID: r.nextID, SlackID: slackID, Name: name, CreatedAt: time.Now().UTC()}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindBySlackID(_ context.Context, slackID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.SlackID == slackID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Upsert(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.SlackID == u.SlackID {
			existing.Name = u.Name
			existing.Avatar = u.Avatar
			clone := *existing
			return &clone, nil
		}
	}
	r.nextID++
	created := *u
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.users[created.ID] = &created
	clone := created
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type stubSessionRepo struct {
	sessions map[string]*domain.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	clone := *s
	r.sessions[s.ID] = &clone
	return nil
}

func (r *stubSessionRepo) Find(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Frames
// ---------------------------------------------------------------------------

type stubFrameRepo struct {
	frames map[int64]*domain.Frame
	nextID int64
}

func newStubFrameRepo() *stubFrameRepo {
	return &stubFrameRepo{frames: make(map[int64]*domain.Frame)}
}

// approved seeds an approved frame directly, bypassing the lifecycle.
func (r *stubFrameRepo) approved(ownerID int64, url string, approvedTime int64) *domain.Frame {
	r.nextID++
	f := &domain.Frame{
		ID:           r.nextID,
		OwnerID:      ownerID,
		URL:          url,
		IsPending:    false,
		ApprovedTime: &approvedTime,
		CreatedAt:    time.Now().UTC(),
	}
	r.frames[f.ID] = f
	return f
}

func (r *stubFrameRepo) Create(_ context.Context, f *domain.Frame) (*domain.Frame, error) {
	r.nextID++
	created := *f
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.frames[created.ID] = &created
	clone := created
	return &clone, nil
}

func (r *stubFrameRepo) FindByID(_ context.Context, id int64) (*domain.Frame, error) {
	f, ok := r.frames[id]
	if !ok {
		return nil, domain.ErrFrameNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *stubFrameRepo) FindByURL(_ context.Context, url string) (*domain.Frame, error) {
	for _, f := range r.frames {
		if f.URL == url {
			clone := *f
			return &clone, nil
		}
	}
	return nil, domain.ErrFrameNotFound
}

func (r *stubFrameRepo) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Frame, error) {
	var out []*domain.Frame
	for _, f := range r.frames {
		if f.OwnerID == ownerID {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubFrameRepo) LatestByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Frame, error) {
	out, _ := r.ListByOwner(ctx, ownerID)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubFrameRepo) SetApproval(_ context.Context, id int64, approvedTime int64) (*domain.Frame, error) {
	f, ok := r.frames[id]
	if !ok {
		return nil, domain.ErrFrameNotFound
	}
	f.ApprovedTime = &approvedTime
	f.IsPending = false
	clone := *f
	return &clone, nil
}

func (r *stubFrameRepo) MarkPending(_ context.Context, id int64) (*domain.Frame, error) {
	f, ok := r.frames[id]
	if !ok {
		return nil, domain.ErrFrameNotFound
	}
	f.IsPending = true
	clone := *f
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Tiles
// ---------------------------------------------------------------------------

type stubTileRepo struct {
	tiles  []*domain.Tile
	frames *stubFrameRepo
	nextID int64
}

func newStubTileRepo(frames *stubFrameRepo) *stubTileRepo {
	return &stubTileRepo{frames: frames}
}

func (r *stubTileRepo) FindAt(_ context.Context, x, y int) (*domain.Tile, error) {
	for _, t := range r.tiles {
		if t.X == x && t.Y == y {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTileNotFound
}

func (r *stubTileRepo) ListByFrame(_ context.Context, frameID int64) ([]*domain.Tile, error) {
	var out []*domain.Tile
	for _, t := range r.tiles {
		if t.FrameID == frameID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTileRepo) ListVisible(_ context.Context) ([]*domain.Tile, error) {
	var out []*domain.Tile
	for _, t := range r.tiles {
		if t.IsPending {
			continue
		}
		// Dangling frame references stay visible so the aggregator can
		// surface the integrity fault, exactly like the real store.
		if f, ok := r.frames.frames[t.FrameID]; ok && f.IsPending {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTileRepo) ListPendingByOwner(_ context.Context, ownerID int64) ([]*domain.Tile, error) {
	var out []*domain.Tile
	for _, t := range r.tiles {
		if !t.IsPending {
			continue
		}
		if f, ok := r.frames.frames[t.FrameID]; !ok || f.OwnerID != ownerID {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

// Place mirrors the sqlite transaction: unique-cell check, then a guarded
// counter increment that re-validates the budget and the pending flag.
func (r *stubTileRepo) Place(ctx context.Context, t *domain.Tile) (*domain.Tile, *domain.Frame, error) {
	if _, err := r.FindAt(ctx, t.X, t.Y); err == nil {
		return nil, nil, domain.ErrPositionOccupied
	}

	f, ok := r.frames.frames[t.FrameID]
	if !ok {
		return nil, nil, domain.ErrFrameNotFound
	}
	required := int64(f.PlacedTiles+1) * domain.TileCost
	if f.IsPending || f.ApprovedTime == nil || *f.ApprovedTime < required {
		return nil, nil, domain.ErrBudgetExceeded
	}

	r.nextID++
	created := *t
	created.ID = r.nextID
	created.PlacedAt = time.Now().UTC()
	r.tiles = append(r.tiles, &created)
	f.PlacedTiles++

	tileClone := created
	frameClone := *f
	return &tileClone, &frameClone, nil
}

func (r *stubTileRepo) PlacePending(ctx context.Context, t *domain.Tile) (*domain.Tile, error) {
	if _, err := r.FindAt(ctx, t.X, t.Y); err == nil {
		return nil, domain.ErrPositionOccupied
	}
	r.nextID++
	created := *t
	created.ID = r.nextID
	created.PlacedAt = time.Now().UTC()
	r.tiles = append(r.tiles, &created)
	clone := created
	return &clone, nil
}

// ---------------------------------------------------------------------------
// External collaborators
// ---------------------------------------------------------------------------

type stubWorkSource struct {
	entries map[string][]domain.WorkEntry // keyed by slack id
	err     error
	calls   int
}

func (s *stubWorkSource) FetchWorkEntries(_ context.Context, slackID string) ([]domain.WorkEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[slackID], nil
}

type stubReviewQueue struct {
	notified []string
	err      error
}

func (q *stubReviewQueue) RequestReview(_ context.Context, trackerRecordID string) error {
	if q.err != nil {
		return q.err
	}
	q.notified = append(q.notified, trackerRecordID)
	return nil
}

type stubIdentityProvider struct {
	identity *ports.Identity
	err      error
}

func (p *stubIdentityProvider) ExchangeCode(_ context.Context, _, _ string) (*ports.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}
