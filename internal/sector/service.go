package sector

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"sectors-server/internal/entity"
	"sectors-server/internal/generator"
	"sectors-server/internal/printable"
	"sectors-server/internal/random"
	"sectors-server/internal/shared/errors"
)

// Service routes sectors between the generated cache, the local store and
// the synced repository.
type Service struct {
	synced   SyncedStore
	local    LocalStorage
	cache    GeneratedCache
	registry *entity.Registry
	limit    int
	genOpts  []generator.Option
	rows     int
	columns  int
	onDelete []func(sectorID string)
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Service)

// WithGeneratorOptions passes opts to every generator the service builds.
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(s *Service) {
		s.genOpts = append(s.genOpts, opts...)
	}
}

// WithDefaultSize sets the grid used when a generate request leaves rows or
// columns out.
func WithDefaultSize(rows, columns int) Option {
	return func(s *Service) {
		s.rows = rows
		s.columns = columns
	}
}

// WithDeleteHook registers fn to run after a sector is deleted.
func WithDeleteHook(fn func(sectorID string)) Option {
	return func(s *Service) {
		s.onDelete = append(s.onDelete, fn)
	}
}

// NewService builds a sector service. limit caps the synced sectors of a
// user; zero or less means no cap.
func NewService(synced SyncedStore, local LocalStorage, cache GeneratedCache, registry *entity.Registry, limit int, logger *slog.Logger, opts ...Option) *Service {
	logger.Debug("Initializing sector service", "sector_limit", limit)

	s := &Service{
		synced:   synced,
		local:    local,
		cache:    cache,
		registry: registry,
		limit:    limit,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate creates a new sector from seed, or from a fresh seed when nil,
// and keeps it in the generated cache on behalf of owner.
func (s *Service) Generate(ctx context.Context, owner Owner, opts generator.SectorOptions, seed *int64) (*Sector, error) {
	resolved, err := random.ResolveSeed(seed)
	if err != nil {
		return nil, errors.WrapInternal("failed to seed generator", err)
	}

	logger := s.logger.With("component", "sector_service", "operation", "generate", "seed", resolved)
	logger.Debug("Generating sector")

	if opts.Rows == 0 {
		opts.Rows = s.rows
	}
	if opts.Columns == 0 {
		opts.Columns = s.columns
	}

	gen := generator.New(s.registry, random.New(resolved), s.logger, s.genOpts...)
	generated, err := gen.GenerateSector(opts)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sec := Sector{
		ID:         generated.ID,
		Name:       generated.Name,
		Rows:       generated.Rows,
		Columns:    generated.Columns,
		Seed:       resolved,
		Entities:   generated.Entities,
		Status:     StatusGenerated,
		CreatedAt:  now,
		UpdatedAt:  now,
		OwnerToken: owner.Token,
	}

	if err := s.cache.Put(ctx, sec); err != nil {
		return nil, errors.WrapInternal("failed to cache generated sector", err)
	}

	logger.Info("Sector generated", "sector_id", sec.ID, "entities", sec.Entities.Count())
	return &sec, nil
}

// Get looks a sector up in the cache, then the synced repository, then the
// local store.
func (s *Service) Get(ctx context.Context, id string) (*Sector, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.Validation("sector ID is required")
	}

	lookups := []func(context.Context, string) (*Sector, error){
		s.cache.Get,
		s.synced.Get,
		s.local.Get,
	}
	for _, lookup := range lookups {
		sec, err := lookup(ctx, id)
		if err == nil {
			return sec, nil
		}
		if !stderrors.Is(err, ErrNotFound) {
			return nil, errors.WrapInternal("failed to load sector", err)
		}
	}
	return nil, errors.NotFoundf("sector not found with id: %s", id)
}

// List returns the synced sectors of a signed-in owner, or the local
// sectors saved under the owner's token otherwise.
func (s *Service) List(ctx context.Context, owner Owner) ([]Summary, error) {
	var (
		sectors []Sector
		err     error
	)
	if owner.UserID != nil {
		sectors, err = s.synced.ListByUser(ctx, *owner.UserID)
	} else {
		sectors, err = s.local.List(ctx, owner.Token)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to list sectors", err)
	}

	summaries := make([]Summary, 0, len(sectors))
	for _, sec := range sectors {
		summaries = append(summaries, sec.Summary())
	}
	return summaries, nil
}

// Save stores a sector where it belongs: without a user it goes to the local
// store, a signed-in user's generated or local sector is uploaded, and a
// synced sector is updated in place. Generated and local sectors can only
// be saved from the browser that holds them.
func (s *Service) Save(ctx context.Context, owner Owner, req SaveRequest) (*Sector, error) {
	logger := s.logger.With("component", "sector_service", "operation", "save", "sector_id", req.ID)
	userID := owner.UserID

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusSynced && !current.heldBy(owner.Token) {
		return nil, errors.Forbidden("sector belongs to another browser")
	}

	next, err := s.apply(*current, req)
	if err != nil {
		return nil, err
	}

	switch {
	case userID == nil:
		if current.Status == StatusSynced {
			return nil, errors.Unauthorized("sign in to update a synced sector")
		}
		saved, err := s.local.Put(ctx, next)
		if err != nil {
			return nil, errors.WrapInternal("failed to save sector locally", err)
		}
		if current.Status == StatusGenerated {
			s.discard(ctx, StatusGenerated, req.ID)
		}
		logger.Info("Sector saved locally")
		return saved, nil

	case current.Status == StatusSynced:
		if !current.owned(*userID) {
			return nil, errors.Forbidden("sector belongs to another user")
		}
		saved, err := s.synced.Update(ctx, next)
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.NotFoundf("sector not found with id: %s", req.ID)
		}
		if err != nil {
			return nil, errors.WrapInternal("failed to update sector", err)
		}
		logger.Info("Sector updated", "user_id", *userID)
		return saved, nil

	default:
		next.UserID = userID
		next.OwnerToken = ""
		saved, err := s.synced.Create(ctx, next, s.limit)
		if stderrors.Is(err, ErrLimitReached) {
			return nil, errors.Conflictf("sector limit reached: at most %d synced sectors", s.limit)
		}
		if err != nil {
			return nil, errors.WrapInternal("failed to upload sector", err)
		}
		s.discard(ctx, current.Status, req.ID)
		logger.Info("Sector uploaded", "user_id", *userID, "from", current.Status)
		return saved, nil
	}
}

// Delete removes a sector from whichever store holds it. Synced sectors can
// only be deleted by their user, generated and local ones by the browser
// holding them.
func (s *Service) Delete(ctx context.Context, owner Owner, id string) error {
	logger := s.logger.With("component", "sector_service", "operation", "delete", "sector_id", id)
	userID := owner.UserID

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != StatusSynced && !current.heldBy(owner.Token) {
		return errors.Forbidden("sector belongs to another browser")
	}

	switch current.Status {
	case StatusGenerated:
		err = s.cache.Delete(ctx, id)
	case StatusLocal:
		err = s.local.Delete(ctx, id)
	case StatusSynced:
		if userID == nil {
			return errors.Unauthorized("authentication required")
		}
		if !current.owned(*userID) {
			return errors.Forbidden("sector belongs to another user")
		}
		err = s.synced.Delete(ctx, id)
	}
	if stderrors.Is(err, ErrNotFound) {
		return errors.NotFoundf("sector not found with id: %s", id)
	}
	if err != nil {
		return errors.WrapInternal("failed to delete sector", err)
	}

	for _, fn := range s.onDelete {
		fn(id)
	}
	logger.Info("Sector deleted", "status", current.Status)
	return nil
}

// CheckOwner fails unless sectorID is a synced sector owned by userID.
func (s *Service) CheckOwner(ctx context.Context, sectorID string, userID int) error {
	sec, err := s.synced.Get(ctx, sectorID)
	if stderrors.Is(err, ErrNotFound) {
		return errors.NotFoundf("synced sector not found with id: %s", sectorID)
	}
	if err != nil {
		return errors.WrapInternal("failed to load sector", err)
	}
	if !sec.owned(userID) {
		return errors.Forbidden("sector belongs to another user")
	}
	return nil
}

// Printable renders a sector's entities as printable blocks.
func (s *Service) Printable(ctx context.Context, id string) (*Sector, []printable.Block, error) {
	sec, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sec, printable.Render(s.registry, sec.Entities), nil
}

func (s *Service) apply(current Sector, req SaveRequest) (Sector, error) {
	next := current
	if name := strings.TrimSpace(req.Name); name != "" {
		if utf8.RuneCountInString(name) > generator.MaxNameLength {
			return Sector{}, errors.Validationf("sector name must be at most %d characters", generator.MaxNameLength)
		}
		next.Name = name
	}
	if req.Entities != nil {
		for t, bucket := range req.Entities {
			if _, ok := s.registry.Lookup(t); !ok {
				return Sector{}, errors.Validationf("unknown entity type %q", t)
			}
			for id, e := range bucket {
				if e.Type != "" && e.Type != t {
					return Sector{}, errors.Validationf("entity %s is filed under %s but has type %s", id, t, e.Type)
				}
			}
		}
		next.Entities = req.Entities
	}
	return next, nil
}

// discard drops the copy of a sector left in the store for status. Failures
// are only logged since the sector is already saved elsewhere.
func (s *Service) discard(ctx context.Context, status Status, id string) {
	var err error
	switch status {
	case StatusGenerated:
		err = s.cache.Delete(ctx, id)
	case StatusLocal:
		err = s.local.Delete(ctx, id)
	default:
		return
	}
	if err != nil && !stderrors.Is(err, ErrNotFound) {
		s.logger.Warn("Failed to discard previous sector copy", "component", "sector_service", "sector_id", id, "status", status, "error", err)
	}
}
