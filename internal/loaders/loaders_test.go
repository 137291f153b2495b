package loaders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campushub/internal/domain/entities"
)

type fakeProfiles struct {
	mu    sync.Mutex
	calls [][]string
	rows  map[string]*entities.UserProfile
	err   error
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	return f.rows[id], nil
}

func (f *fakeProfiles) GetByIDs(_ context.Context, ids []string) ([]*entities.UserProfile, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ids)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*entities.UserProfile
	for _, id := range ids {
		if p, ok := f.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCategories struct{}

func (fakeCategories) List(context.Context) ([]*entities.Category, error) { return nil, nil }

func (fakeCategories) GetByIDs(_ context.Context, ids []string) ([]*entities.Category, error) {
	out := []*entities.Category{}
	for _, id := range ids {
		if id == "c1" {
			out = append(out, &entities.Category{ID: "c1", Name: "Books"})
		}
	}
	return out, nil
}

func TestProfilesBatchesAndSkipsMissing(t *testing.T) {
	repo := &fakeProfiles{rows: map[string]*entities.UserProfile{
		"u1": {ID: "u1", FullName: "Asha Rao"},
		"u2": {ID: "u2", FullName: "Ravi K"},
	}}
	l := NewLoaders(repo, fakeCategories{})

	got, err := l.Profiles(context.Background(), []string{"u1", "u2", "u3"})
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, "Asha Rao", got["u1"].FullName)
	assert.NotContains(t, got, "u3")
	assert.Len(t, repo.calls, 1)
}

func TestProfilesError(t *testing.T) {
	repo := &fakeProfiles{err: errors.New("db down")}
	l := NewLoaders(repo, fakeCategories{})

	_, err := l.Profiles(context.Background(), []string{"u1"})
	assert.Error(t, err)
}

func TestCategoriesEmpty(t *testing.T) {
	l := NewLoaders(&fakeProfiles{}, fakeCategories{})

	got, err := l.Categories(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = l.Categories(context.Background(), []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Equal(t, "Books", got["c1"].Name)
	assert.NotContains(t, got, "c2")
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, For(context.Background()))

	l := NewLoaders(&fakeProfiles{}, fakeCategories{})
	assert.Same(t, l, For(WithLoaders(context.Background(), l)))
}
