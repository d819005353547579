package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/package-service/internal/domain"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   PackageFilter
		contains []string
		args     []any
	}{
		{
			name:     "no filter",
			filter:   PackageFilter{},
			contains: []string{"WHERE 1=1 ORDER BY created_at DESC, ticket_id DESC"},
			args:     []any{},
		},
		{
			name:     "statuses",
			filter:   PackageFilter{Statuses: []domain.PackageStatus{domain.PackageStatusActive, domain.PackageStatusInactive}},
			contains: []string{"status IN ($1,$2)"},
			args:     []any{"Active", "Inactive"},
		},
		{
			name:   "numbering continues across clauses",
			filter: PackageFilter{Statuses: []domain.PackageStatus{domain.PackageStatusPending}, SearchTerm: strPtr(" Netflix "), BaseProduct: strPtr("1")},
			contains: []string{
				"status IN ($1)",
				"LOWER(name) LIKE $2 OR LOWER(base_product->>'name') LIKE $2",
				"LOWER(base_product->>'name') LIKE $3 OR LOWER(base_product->>'id') = $4",
			},
			args: []any{"Pending", "%netflix%", "%1%", "1"},
		},
		{
			name:     "provider matches complementary products",
			filter:   PackageFilter{Provider: strPtr("Spotify")},
			contains: []string{"jsonb_array_elements(complementary_products) cp WHERE LOWER(cp->>'provider') LIKE $1"},
			args:     []any{"%spotify%"},
		},
		{
			name:     "wildcards are literal",
			filter:   PackageFilter{SearchTerm: strPtr(`50%_off\`)},
			contains: []string{"LIKE $1"},
			args:     []any{`%50\%\_off\\%`},
		},
		{
			name:     "paging",
			filter:   PackageFilter{Limit: 20, Offset: 40},
			contains: []string{" LIMIT 20 OFFSET 40"},
			args:     []any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)
			for _, fragment := range tt.contains {
				assert.Contains(t, query, fragment)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.val
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	year any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.year = args[0]
	return q.row
}

func TestPostgresTicketSequencer(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{val: 7}}
	seq := &postgresTicketSequencer{pool: q}

	got, err := seq.Next(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
	assert.Equal(t, 2026, q.year)

	down := errors.New("connection reset")
	q.row = fakeRow{err: down}
	_, err = seq.Next(context.Background(), 2026)
	assert.ErrorIs(t, err, down)
}
