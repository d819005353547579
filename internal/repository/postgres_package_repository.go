package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/package-service/internal/domain"
)

const packageColumns = `id, ticket_id, name, description, base_product, complementary_products,
               telco_services, price::text, status, created_at`

type postgresPackageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPackageRepository instantiates repository.
func NewPostgresPackageRepository(pool *pgxpool.Pool) PackageRepository {
	return &postgresPackageRepository{pool: pool}
}

func (r *postgresPackageRepository) Create(ctx context.Context, item *domain.PackageItem) error {
	base, err := json.Marshal(item.BaseProduct)
	if err != nil {
		return fmt.Errorf("encode base product: %w", err)
	}
	products := item.ComplementaryProducts
	if products == nil {
		products = []domain.Product{}
	}
	complementary, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode complementary products: %w", err)
	}
	var telco []byte
	if item.TelcoServices != nil {
		if telco, err = json.Marshal(item.TelcoServices); err != nil {
			return fmt.Errorf("encode telco services: %w", err)
		}
	}

	const query = `
        INSERT INTO packages (id, ticket_id, name, description, base_product, complementary_products,
                              telco_services, price, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8::text::numeric,$9,$10)`
	_, err = r.pool.Exec(ctx, query,
		item.ID,
		item.TicketID,
		item.Name,
		item.Description,
		base,
		complementary,
		telco,
		item.Price.String(),
		item.Status,
		item.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func (r *postgresPackageRepository) GetByID(ctx context.Context, id string) (*domain.PackageItem, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id=$1`
	item, err := scanPackage(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return item, err
}

func (r *postgresPackageRepository) List(ctx context.Context, filter PackageFilter) ([]domain.PackageItem, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.PackageItem{}
	for rows.Next() {
		item, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func (r *postgresPackageRepository) UpdateStatus(ctx context.Context, id string, mutate StatusMutator) (domain.PackageStatus, *domain.PackageItem, error) {
	var (
		previous domain.PackageStatus
		updated  *domain.PackageItem
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `SELECT ` + packageColumns + ` FROM packages WHERE id=$1 FOR UPDATE`
		item, err := scanPackage(tx.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}
		previous = item.Status
		next, err := mutate(previous)
		if err != nil {
			return err
		}
		if next != previous {
			if _, err := tx.Exec(ctx, `UPDATE packages SET status=$1 WHERE id=$2`, next, id); err != nil {
				return err
			}
			item.Status = next
		}
		updated = item
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, domain.ErrNotFound
	}
	if err != nil {
		return previous, nil, err
	}
	return previous, updated, nil
}

func (r *postgresPackageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM packages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildListQuery renders filter into a parameterised SELECT, newest first.
func buildListQuery(filter PackageFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	next := func(val any) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = next(string(status))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if term := normalize(filter.SearchTerm); term != "" {
		p := next(likePattern(term))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %[1]s OR LOWER(base_product->>'name') LIKE %[1]s OR LOWER(base_product->>'provider') LIKE %[1]s)", p))
	}
	if provider := normalize(filter.Provider); provider != "" {
		p := next(likePattern(provider))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(base_product->>'provider') LIKE %[1]s OR EXISTS (SELECT 1 FROM jsonb_array_elements(complementary_products) cp WHERE LOWER(cp->>'provider') LIKE %[1]s))", p))
	}
	if base := normalize(filter.BaseProduct); base != "" {
		like, exact := next(likePattern(base)), next(base)
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(base_product->>'name') LIKE %s OR LOWER(base_product->>'id') = %s)", like, exact))
	}

	query := fmt.Sprintf(`SELECT %s FROM packages WHERE %s ORDER BY created_at DESC, ticket_id DESC`,
		packageColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term as a literal substring. Backslash is the default LIKE escape.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func scanPackage(row pgx.Row) (*domain.PackageItem, error) {
	var (
		item          domain.PackageItem
		base          []byte
		complementary []byte
		telco         []byte
		price         string
	)
	if err := row.Scan(
		&item.ID,
		&item.TicketID,
		&item.Name,
		&item.Description,
		&base,
		&complementary,
		&telco,
		&price,
		&item.Status,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(base, &item.BaseProduct); err != nil {
		return nil, fmt.Errorf("decode base product: %w", err)
	}
	if err := json.Unmarshal(complementary, &item.ComplementaryProducts); err != nil {
		return nil, fmt.Errorf("decode complementary products: %w", err)
	}
	if len(telco) > 0 {
		item.TelcoServices = &domain.TelcoServiceBlock{}
		if err := json.Unmarshal(telco, item.TelcoServices); err != nil {
			return nil, fmt.Errorf("decode telco services: %w", err)
		}
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decode price: %w", err)
	}
	item.Price = parsed
	return &item, nil
}
