package navigation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"sectors-server/internal/shared/errors"
)

type memoryStore struct {
	mu      sync.Mutex
	routes  map[string]map[string]Route
	failErr error
	// block, when set, is received from before each write returns
	block chan struct{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{routes: make(map[string]map[string]Route)}
}

func (m *memoryStore) ListBySector(_ context.Context, sectorID string) (map[string]Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRoutes(m.routes[sectorID]), nil
}

func (m *memoryStore) Save(_ context.Context, sectorID, routeID string, route Route) error {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if m.routes[sectorID] == nil {
		m.routes[sectorID] = make(map[string]Route)
	}
	m.routes[sectorID][routeID] = cloneRoute(route)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sectorID, routeID string) (bool, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return false, m.failErr
	}
	if _, ok := m.routes[sectorID][routeID]; !ok {
		return false, nil
	}
	delete(m.routes[sectorID], routeID)
	return true, nil
}

func (m *memoryStore) SetHidden(_ context.Context, sectorID, routeID string, hidden bool) (bool, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return false, m.failErr
	}
	route, ok := m.routes[sectorID][routeID]
	if !ok {
		return false, nil
	}
	route.IsHidden = hidden
	m.routes[sectorID][routeID] = route
	return true, nil
}

func (m *memoryStore) wait() {
	if m.block != nil {
		<-m.block
	}
}

func newTestService(store RouteStore) *Service {
	s := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("route-%d", n)
	}
	return s
}

func TestService_CompleteRoute(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, route, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0101", "0102", "0203"}, Color: "#ff00ff"})
	if err != nil {
		t.Fatalf("CompleteRoute() error = %v", err)
	}
	if id != "route-1" {
		t.Errorf("id = %q, want route-1", id)
	}
	if route.Color != "#ff00ff" || route.Width != DefaultWidth || route.Type != DefaultType {
		t.Errorf("route = %+v", route)
	}
	if _, ok := store.routes["s1"][id]; !ok {
		t.Error("route not persisted")
	}

	routes, err := svc.Routes(ctx, "s1")
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}
	if len(routes) != 1 {
		t.Errorf("Routes() = %v, want one route", routes)
	}
}

func TestService_CompleteRouteValidation(t *testing.T) {
	tests := []struct {
		name  string
		route []string
	}{
		{name: "empty", route: nil},
		{name: "single location", route: []string{"0101"}},
		{name: "bad label", route: []string{"0101", "x1"}},
	}

	svc := newTestService(newMemoryStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CompleteRoute(context.Background(), "s1", RouteDraft{Route: tt.route})
			if !errors.Is(err, errors.ErrorTypeValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestService_FailedSaveReleasesLock(t *testing.T) {
	store := newMemoryStore()
	store.failErr = fmt.Errorf("connection reset")
	svc := newTestService(store)
	ctx := context.Background()

	_, _, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0101", "0102"}})
	if !errors.Is(err, errors.ErrorTypeInternal) {
		t.Fatalf("error = %v, want internal error", err)
	}

	store.failErr = nil
	if _, _, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0101", "0102"}}); err != nil {
		t.Errorf("CompleteRoute() after failure error = %v", err)
	}
}

func TestService_ConcurrentWriteConflicts(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Routes(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	store.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, _, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0101", "0102"}})
		done <- err
	}()

	// wait for the first write to hold the sync lock
	for {
		svc.mu.Lock()
		locked := svc.states["s1"].SyncLock
		svc.mu.Unlock()
		if locked {
			break
		}
	}

	_, _, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0303", "0304"}})
	if !errors.Is(err, errors.ErrorTypeConflict) {
		t.Errorf("second write error = %v, want conflict", err)
	}

	close(store.block)
	if err := <-done; err != nil {
		t.Errorf("first write error = %v", err)
	}
}

func TestService_DeleteRoute(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, _, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0101", "0102"}})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteRoute(ctx, "s1", id); err != nil {
		t.Fatalf("DeleteRoute() error = %v", err)
	}
	if len(store.routes["s1"]) != 0 {
		t.Error("route still stored")
	}

	err = svc.DeleteRoute(ctx, "s1", id)
	if !errors.Is(err, errors.ErrorTypeNotFound) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}

func TestService_SetVisibility(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, _, err := svc.CompleteRoute(ctx, "s1", RouteDraft{Route: []string{"0101", "0102"}})
	if err != nil {
		t.Fatal(err)
	}

	route, err := svc.SetVisibility(ctx, "s1", id, true)
	if err != nil {
		t.Fatalf("SetVisibility() error = %v", err)
	}
	if !route.IsHidden || !store.routes["s1"][id].IsHidden {
		t.Error("route not hidden")
	}

	store.failErr = fmt.Errorf("timeout")
	if _, err := svc.SetVisibility(ctx, "s1", id, false); err == nil {
		t.Fatal("SetVisibility() succeeded with a failing store")
	}

	svc.mu.Lock()
	state := svc.states["s1"]
	svc.mu.Unlock()
	if !state.Routes["s1"][id].IsHidden {
		t.Error("failed write was not rolled back")
	}
	if state.SyncLock {
		t.Error("sync lock still held after failure")
	}

	if _, err := svc.SetVisibility(ctx, "s1", "missing", true); !errors.Is(err, errors.ErrorTypeNotFound) {
		t.Errorf("missing route error = %v, want not found", err)
	}
}
