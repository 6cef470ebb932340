package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/db"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*db.User
	profiles map[uuid.UUID]*db.Profile
	meals    map[uuid.UUID]*db.Meal
	weights  map[uuid.UUID]*db.WeightEntry
	goals    map[uuid.UUID]*db.Goal
	pingErr  error
	listErr  error
	now      func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uuid.UUID]*db.User{},
		profiles: map[uuid.UUID]*db.Profile{},
		meals:    map[uuid.UUID]*db.Meal{},
		weights:  map[uuid.UUID]*db.WeightEntry{},
		goals:    map[uuid.UUID]*db.Goal{},
		now:      func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = &db.User{ID: id, Name: name, Email: strings.ToLower(email), CreatedAt: f.now(), UpdatedAt: f.now()}
	return id, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p *db.Profile) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.UpdatedAt = f.now()
	f.profiles[p.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateMeal(_ context.Context, m *db.Meal) (*db.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	cp.ID = uuid.New()
	cp.CreatedAt = f.now()
	if cp.EatenAt.IsZero() {
		cp.EatenAt = f.now()
	}
	f.meals[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetMeal(_ context.Context, userID, id uuid.UUID) (*db.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meals[id]; ok && m.UserID == userID {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) ListMeals(_ context.Context, userID uuid.UUID, filter db.MealFilter) ([]db.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	meals := []db.Meal{}
	for _, m := range f.meals {
		if m.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && m.EatenAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !m.EatenAt.Before(filter.To) {
			continue
		}
		meals = append(meals, *m)
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].EatenAt.After(meals[j].EatenAt) })
	if filter.Limit > 0 && len(meals) > filter.Limit {
		meals = meals[:filter.Limit]
	}
	return meals, nil
}

func (f *fakeStore) UpdateMeal(_ context.Context, m *db.Meal) (*db.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.meals[m.ID]
	if !ok || existing.UserID != m.UserID {
		return nil, nil
	}
	cp := *m
	cp.CreatedAt = existing.CreatedAt
	if cp.EatenAt.IsZero() {
		cp.EatenAt = existing.EatenAt
	}
	f.meals[m.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) DeleteMeal(_ context.Context, userID, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meals[id]; ok && m.UserID == userID {
		delete(f.meals, id)
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) CreateWeightEntry(_ context.Context, w *db.WeightEntry) (*db.WeightEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	cp.ID = uuid.New()
	if cp.RecordedAt.IsZero() {
		cp.RecordedAt = f.now()
	}
	newest := true
	for _, e := range f.weights {
		if e.UserID == w.UserID && e.RecordedAt.After(cp.RecordedAt) {
			newest = false
		}
	}
	f.weights[cp.ID] = &cp
	if p, ok := f.profiles[w.UserID]; ok && newest {
		p.CurrentWeight = cp.Weight
	}
	out := cp
	return &out, nil
}

func (f *fakeStore) ListWeightEntries(_ context.Context, userID uuid.UUID, limit int) ([]db.WeightEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := []db.WeightEntry{}
	for _, e := range f.weights {
		if e.UserID == userID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RecordedAt.After(entries[j].RecordedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeStore) LatestWeightEntry(ctx context.Context, userID uuid.UUID) (*db.WeightEntry, error) {
	entries, err := f.ListWeightEntries(ctx, userID, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (f *fakeStore) DeleteWeightEntry(_ context.Context, userID, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.weights[id]; ok && e.UserID == userID {
		delete(f.weights, id)
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) deactivateLocked(userID, except uuid.UUID) {
	for id, g := range f.goals {
		if g.UserID == userID && id != except {
			g.Active = false
		}
	}
}

func (f *fakeStore) CreateGoal(_ context.Context, g *db.Goal) (*db.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	cp.ID = uuid.New()
	cp.CreatedAt = f.now()
	if cp.Active {
		f.deactivateLocked(g.UserID, cp.ID)
	}
	f.goals[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetGoal(_ context.Context, userID, id uuid.UUID) (*db.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.goals[id]; ok && g.UserID == userID {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetActiveGoal(_ context.Context, userID uuid.UUID) (*db.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.goals {
		if g.UserID == userID && g.Active {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListGoals(_ context.Context, userID uuid.UUID) ([]db.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	goals := []db.Goal{}
	for _, g := range f.goals {
		if g.UserID == userID {
			goals = append(goals, *g)
		}
	}
	return goals, nil
}

func (f *fakeStore) UpdateGoal(_ context.Context, g *db.Goal) (*db.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.goals[g.ID]
	if !ok || existing.UserID != g.UserID {
		return nil, nil
	}
	cp := *g
	cp.CreatedAt = existing.CreatedAt
	if cp.Active {
		f.deactivateLocked(g.UserID, g.ID)
	}
	f.goals[g.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) DeleteGoal(_ context.Context, userID, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.goals[id]; ok && g.UserID == userID {
		delete(f.goals, id)
		return true, nil
	}
	return false, nil
}

var _ Store = (*fakeStore)(nil)
