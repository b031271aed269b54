package uow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	db DBTX
}

func TestTransaction_Get(t *testing.T) {
	var calls int
	repos := map[RepositoryName]RepositoryFactory{
		"fake": func(db DBTX) Repository {
			calls++
			return &fakeRepo{db: db}
		},
	}
	tr := NewTransaction(nil, repos)

	first, err := tr.Get("fake")
	require.NoError(t, err)
	second, err := tr.Get("fake")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	_, err = tr.Get("missing")
	require.ErrorIs(t, err, ErrRepositoryNotRegistered)
}

func TestGetAs(t *testing.T) {
	repos := map[RepositoryName]RepositoryFactory{
		"fake": func(db DBTX) Repository { return &fakeRepo{db: db} },
	}
	tr := NewTransaction(nil, repos)

	repo, err := GetAs[*fakeRepo](tr, "fake")
	require.NoError(t, err)
	assert.NotNil(t, repo)

	_, err = GetAs[string](tr, "fake")
	require.ErrorIs(t, err, ErrInvalidRepositoryType)
}

func TestIsConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "deadlock", err: fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40P01"}), want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "plain error", err: errors.New("boom")},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflict(tt.err))
		})
	}
}
