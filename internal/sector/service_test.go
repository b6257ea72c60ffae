package sector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sectors-server/internal/entity"
	"sectors-server/internal/generator"
	"sectors-server/internal/shared/errors"
)

type memorySynced struct {
	sectors map[string]Sector
}

func newMemorySynced() *memorySynced {
	return &memorySynced{sectors: make(map[string]Sector)}
}

func (m *memorySynced) Create(_ context.Context, s Sector, limit int) (*Sector, error) {
	if s.UserID != nil && limit > 0 {
		count := 0
		for _, existing := range m.sectors {
			if existing.owned(*s.UserID) {
				count++
			}
		}
		if count >= limit {
			return nil, ErrLimitReached
		}
	}
	s.Status = StatusSynced
	m.sectors[s.ID] = s
	return &s, nil
}

func (m *memorySynced) Update(_ context.Context, s Sector) (*Sector, error) {
	if _, ok := m.sectors[s.ID]; !ok {
		return nil, ErrNotFound
	}
	s.Status = StatusSynced
	m.sectors[s.ID] = s
	return &s, nil
}

func (m *memorySynced) Get(_ context.Context, id string) (*Sector, error) {
	s, ok := m.sectors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memorySynced) ListByUser(_ context.Context, userID int) ([]Sector, error) {
	var out []Sector
	for _, s := range m.sectors {
		if s.owned(userID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySynced) Delete(_ context.Context, id string) error {
	if _, ok := m.sectors[id]; !ok {
		return ErrNotFound
	}
	delete(m.sectors, id)
	return nil
}

type testEnv struct {
	svc    *Service
	synced *memorySynced
	local  *LocalStore
	cache  *MemoryCache
}

func newTestEnv(t *testing.T, limit int, opts ...Option) testEnv {
	t.Helper()
	env := testEnv{
		synced: newMemorySynced(),
		local:  openTestLocalStore(t),
		cache:  NewMemoryCache(time.Hour),
	}
	env.svc = NewService(env.synced, env.local, env.cache, entity.NewRegistry(), limit, discardLogger(), opts...)
	return env
}

func seed(v int64) *int64 {
	return &v
}

const browserToken = "browser-a"

// guest is an anonymous caller from the browser that generates the test
// sectors.
var guest = Owner{Token: browserToken}

func member(id int) Owner {
	return Owner{UserID: &id, Token: browserToken}
}

func (env testEnv) generate(t *testing.T) *Sector {
	t.Helper()
	sec, err := env.svc.Generate(context.Background(), guest, generator.SectorOptions{Rows: 4, Columns: 4}, seed(99))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return sec
}

func TestService_GenerateCaches(t *testing.T) {
	env := newTestEnv(t, 10)
	sec := env.generate(t)

	if sec.Status != StatusGenerated || sec.Seed != 99 {
		t.Errorf("generated = %+v", sec)
	}
	if sec.Entities.Count() == 0 {
		t.Error("generated sector has no entities")
	}

	got, err := env.svc.Get(context.Background(), sec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusGenerated || got.Entities.Count() != sec.Entities.Count() {
		t.Errorf("Get() = %+v", got)
	}
}

func TestService_GenerateIsReproducible(t *testing.T) {
	n := 0
	ids := generator.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})

	first := newTestEnv(t, 10, WithGeneratorOptions(ids)).generate(t)
	n = 0
	second := newTestEnv(t, 10, WithGeneratorOptions(ids)).generate(t)

	if first.Name != second.Name || first.Entities.Count() != second.Entities.Count() {
		t.Errorf("same seed produced %q (%d) and %q (%d)", first.Name, first.Entities.Count(), second.Name, second.Entities.Count())
	}
}

func TestService_GenerateValidation(t *testing.T) {
	env := newTestEnv(t, 10)
	_, err := env.svc.Generate(context.Background(), guest, generator.SectorOptions{Rows: 500}, seed(1))
	if !errors.Is(err, errors.ErrorTypeValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestService_SaveRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous goes local", func(t *testing.T) {
		env := newTestEnv(t, 10)
		sec := env.generate(t)

		saved, err := env.svc.Save(ctx, guest, SaveRequest{ID: sec.ID, Name: "Kept Locally"})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if saved.Status != StatusLocal || saved.Name != "Kept Locally" {
			t.Errorf("saved = %+v", saved)
		}
		if _, err := env.cache.Get(ctx, sec.ID); err == nil {
			t.Error("generated copy still cached")
		}
	})

	t.Run("signed in uploads generated", func(t *testing.T) {
		env := newTestEnv(t, 10)
		sec := env.generate(t)

		saved, err := env.svc.Save(ctx, member(1), SaveRequest{ID: sec.ID})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if saved.Status != StatusSynced || saved.UserID == nil || *saved.UserID != 1 {
			t.Errorf("saved = %+v", saved)
		}
		if _, err := env.cache.Get(ctx, sec.ID); err == nil {
			t.Error("generated copy still cached")
		}
	})

	t.Run("signed in uploads local", func(t *testing.T) {
		env := newTestEnv(t, 10)
		sec := env.generate(t)
		if _, err := env.svc.Save(ctx, guest, SaveRequest{ID: sec.ID}); err != nil {
			t.Fatal(err)
		}

		saved, err := env.svc.Save(ctx, member(1), SaveRequest{ID: sec.ID})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if saved.Status != StatusSynced {
			t.Errorf("Status = %q, want synced", saved.Status)
		}
		if _, err := env.local.Get(ctx, sec.ID); err == nil {
			t.Error("local copy not removed")
		}
	})

	t.Run("owner updates synced", func(t *testing.T) {
		env := newTestEnv(t, 10)
		sec := env.generate(t)
		if _, err := env.svc.Save(ctx, member(1), SaveRequest{ID: sec.ID}); err != nil {
			t.Fatal(err)
		}

		saved, err := env.svc.Save(ctx, member(1), SaveRequest{ID: sec.ID, Name: "Renamed"})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if env.synced.sectors[sec.ID].Name != "Renamed" || saved.Name != "Renamed" {
			t.Errorf("synced copy = %+v", env.synced.sectors[sec.ID])
		}
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		env := newTestEnv(t, 10)
		sec := env.generate(t)
		if _, err := env.svc.Save(ctx, member(1), SaveRequest{ID: sec.ID}); err != nil {
			t.Fatal(err)
		}

		_, err := env.svc.Save(ctx, member(2), SaveRequest{ID: sec.ID, Name: "Mine"})
		if !errors.Is(err, errors.ErrorTypeForbidden) {
			t.Errorf("error = %v, want forbidden", err)
		}
		_, err = env.svc.Save(ctx, guest, SaveRequest{ID: sec.ID})
		if !errors.Is(err, errors.ErrorTypeUnauthorized) {
			t.Errorf("anonymous error = %v, want unauthorized", err)
		}
	})
}

func TestService_SaveLimit(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	first := env.generate(t)
	if _, err := env.svc.Save(ctx, member(1), SaveRequest{ID: first.ID}); err != nil {
		t.Fatal(err)
	}

	second, err := env.svc.Generate(ctx, guest, generator.SectorOptions{}, seed(100))
	if err != nil {
		t.Fatal(err)
	}
	_, err = env.svc.Save(ctx, member(1), SaveRequest{ID: second.ID})
	if !errors.Is(err, errors.ErrorTypeConflict) {
		t.Errorf("error = %v, want conflict", err)
	}
	if _, err := env.cache.Get(ctx, second.ID); err != nil {
		t.Error("rejected sector was dropped from the cache")
	}
}

func TestService_SaveValidation(t *testing.T) {
	env := newTestEnv(t, 10)
	sec := env.generate(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SaveRequest
		want errors.ErrorType
	}{
		{name: "missing id", req: SaveRequest{}, want: errors.ErrorTypeValidation},
		{name: "unknown id", req: SaveRequest{ID: "nope"}, want: errors.ErrorTypeNotFound},
		{name: "long name", req: SaveRequest{ID: sec.ID, Name: "This sector name is far too long to be accepted"}, want: errors.ErrorTypeValidation},
		{name: "unknown type", req: SaveRequest{ID: sec.ID, Entities: entity.Collection{"wormhole": {}}}, want: errors.ErrorTypeValidation},
		{
			name: "misfiled entity",
			req: SaveRequest{ID: sec.ID, Entities: entity.Collection{
				entity.TypeSystem: {"x": {Name: "X", Type: entity.TypeSpaceStation}},
			}},
			want: errors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Save(ctx, guest, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestService_ListAndDelete(t *testing.T) {
	var deleted []string
	env := newTestEnv(t, 10, WithDeleteHook(func(id string) { deleted = append(deleted, id) }))
	ctx := context.Background()

	local := env.generate(t)
	if _, err := env.svc.Save(ctx, guest, SaveRequest{ID: local.ID}); err != nil {
		t.Fatal(err)
	}

	synced, err := env.svc.Generate(ctx, guest, generator.SectorOptions{}, seed(5))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.Save(ctx, member(3), SaveRequest{ID: synced.ID}); err != nil {
		t.Fatal(err)
	}

	anonymous, err := env.svc.List(ctx, guest)
	if err != nil || len(anonymous) != 1 || anonymous[0].ID != local.ID {
		t.Errorf("List(guest) = %+v, %v", anonymous, err)
	}
	mine, err := env.svc.List(ctx, member(3))
	if err != nil || len(mine) != 1 || mine[0].ID != synced.ID {
		t.Errorf("List(3) = %+v, %v", mine, err)
	}

	if err := env.svc.Delete(ctx, member(4), synced.ID); !errors.Is(err, errors.ErrorTypeForbidden) {
		t.Errorf("Delete by stranger error = %v, want forbidden", err)
	}
	if err := env.svc.Delete(ctx, member(3), synced.ID); err != nil {
		t.Errorf("Delete by owner error = %v", err)
	}
	if err := env.svc.Delete(ctx, guest, local.ID); err != nil {
		t.Errorf("Delete local error = %v", err)
	}

	if len(deleted) != 2 {
		t.Errorf("delete hook ran for %v, want both sectors", deleted)
	}
	if _, err := env.svc.Get(ctx, local.ID); !errors.Is(err, errors.ErrorTypeNotFound) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}
}

func TestService_CheckOwner(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()
	sec := env.generate(t)

	if err := env.svc.CheckOwner(ctx, sec.ID, 1); !errors.Is(err, errors.ErrorTypeNotFound) {
		t.Errorf("unsynced error = %v, want not found", err)
	}

	if _, err := env.svc.Save(ctx, member(1), SaveRequest{ID: sec.ID}); err != nil {
		t.Fatal(err)
	}
	if err := env.svc.CheckOwner(ctx, sec.ID, 1); err != nil {
		t.Errorf("owner error = %v", err)
	}
	if err := env.svc.CheckOwner(ctx, sec.ID, 2); !errors.Is(err, errors.ErrorTypeForbidden) {
		t.Errorf("stranger error = %v, want forbidden", err)
	}
}

func TestService_Printable(t *testing.T) {
	env := newTestEnv(t, 10)
	sec := env.generate(t)

	got, blocks, err := env.svc.Printable(context.Background(), sec.ID)
	if err != nil {
		t.Fatalf("Printable() error = %v", err)
	}
	if got.ID != sec.ID {
		t.Errorf("sector = %s, want %s", got.ID, sec.ID)
	}
	if len(blocks) != sec.Entities.Count() {
		t.Errorf("blocks = %d, want one per entity (%d)", len(blocks), sec.Entities.Count())
	}
}

func TestService_DefaultSize(t *testing.T) {
	env := newTestEnv(t, 10, WithDefaultSize(5, 6))

	sec, err := env.svc.Generate(context.Background(), guest, generator.SectorOptions{Columns: 2}, seed(3))
	if err != nil {
		t.Fatal(err)
	}
	if sec.Rows != 5 || sec.Columns != 2 {
		t.Errorf("grid = %dx%d, want 5x2", sec.Rows, sec.Columns)
	}
}

func TestService_LocalSectorsStayWithTheirBrowser(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()
	other := Owner{Token: "browser-b"}

	mine := env.generate(t)
	if _, err := env.svc.Save(ctx, guest, SaveRequest{ID: mine.ID, Name: "Mine"}); err != nil {
		t.Fatal(err)
	}
	pending := env.generate(t)

	list, err := env.svc.List(ctx, other)
	if err != nil || len(list) != 0 {
		t.Errorf("List(other) = %+v, %v, want nothing", list, err)
	}
	list, err = env.svc.List(ctx, guest)
	if err != nil || len(list) != 1 || list[0].ID != mine.ID {
		t.Errorf("List(guest) = %+v, %v", list, err)
	}

	for _, id := range []string{mine.ID, pending.ID} {
		if err := env.svc.Delete(ctx, other, id); !errors.Is(err, errors.ErrorTypeForbidden) {
			t.Errorf("Delete(%s) by other browser error = %v, want forbidden", id, err)
		}
		if _, err := env.svc.Save(ctx, other, SaveRequest{ID: id, Name: "Taken"}); !errors.Is(err, errors.ErrorTypeForbidden) {
			t.Errorf("Save(%s) by other browser error = %v, want forbidden", id, err)
		}
	}

	signedInElsewhere := other
	signedInElsewhere.UserID = member(7).UserID
	if _, err := env.svc.Save(ctx, signedInElsewhere, SaveRequest{ID: mine.ID}); !errors.Is(err, errors.ErrorTypeForbidden) {
		t.Errorf("upload from another browser error = %v, want forbidden", err)
	}

	if got, err := env.svc.Get(ctx, mine.ID); err != nil || got.Name != "Mine" {
		t.Errorf("local sector changed: %+v, %v", got, err)
	}
	if _, err := env.cache.Get(ctx, pending.ID); err != nil {
		t.Errorf("generated sector removed: %v", err)
	}
}
