package quotation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/pricing"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/relation"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Save(ctx context.Context, q *Quotation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO quotation (id, mode, route, standard, combo_arity,
			subtotal_test, surcharge, discount_rate, discount_reason, discount_amount, grand_total, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		q.ID, string(q.Context.Mode), string(q.Context.Route), string(q.Context.Standard), q.Context.ComboArity,
		q.Totals.SubtotalTest, q.Totals.Surcharge, q.Totals.DiscountRate, q.Totals.DiscountReason,
		q.Totals.DiscountAmount, q.Totals.GrandTotal, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}

	for _, t := range q.Tests {
		var method, points, count *string
		if t.TK != nil {
			method, points, count = &t.TK.Method, &t.TK.Points, &t.TK.Count
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO quotation_test (quotation_id, instance_id, item_id, name, category,
				price, price_override, is_option, parent_id, tk_method, tk_points, tk_count, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			q.ID, t.InstanceID, t.ItemID, t.Name, t.Category,
			t.Price, t.PriceOverride, t.IsOption, t.ParentID, method, points, count, t.SortOrder)
		if err != nil {
			return fmt.Errorf("insert quotation test %s: %w", t.InstanceID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	q := &Quotation{}
	var mode, route, standard string
	err := r.pool.QueryRow(ctx, `
		SELECT id, mode, route, standard, combo_arity,
			subtotal_test, surcharge, discount_rate, discount_reason, discount_amount, grand_total, created_at
		FROM quotation WHERE id = $1`, id).
		Scan(&q.ID, &mode, &route, &standard, &q.Context.ComboArity,
			&q.Totals.SubtotalTest, &q.Totals.Surcharge, &q.Totals.DiscountRate, &q.Totals.DiscountReason,
			&q.Totals.DiscountAmount, &q.Totals.GrandTotal, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query quotation: %w", err)
	}
	q.Context.Mode = catalog.TestMode(mode)
	q.Context.Route = pricing.Route(route)
	q.Context.Standard = pricing.Standard(standard)

	rows, err := r.pool.Query(ctx, `
		SELECT instance_id, item_id, name, category, price, price_override,
			is_option, parent_id, tk_method, tk_points, tk_count, sort_order
		FROM quotation_test WHERE quotation_id = $1 ORDER BY sort_order`, id)
	if err != nil {
		return nil, fmt.Errorf("query quotation tests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t SelectedTest
		var method, points, count *string
		if err := rows.Scan(&t.InstanceID, &t.ItemID, &t.Name, &t.Category, &t.Price, &t.PriceOverride,
			&t.IsOption, &t.ParentID, &method, &points, &count, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("scan quotation test: %w", err)
		}
		if method != nil {
			t.TK = &relation.Pick{Method: *method}
			if points != nil {
				t.TK.Points = *points
			}
			if count != nil {
				t.TK.Count = *count
			}
		}
		q.Tests = append(q.Tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotation tests: %w", err)
	}

	return q, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Quotation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotation`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, mode, route, standard, combo_arity,
			subtotal_test, surcharge, discount_rate, discount_reason, discount_amount, grand_total, created_at
		FROM quotation ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var out []*Quotation
	for rows.Next() {
		q := &Quotation{}
		var mode, route, standard string
		if err := rows.Scan(&q.ID, &mode, &route, &standard, &q.Context.ComboArity,
			&q.Totals.SubtotalTest, &q.Totals.Surcharge, &q.Totals.DiscountRate, &q.Totals.DiscountReason,
			&q.Totals.DiscountAmount, &q.Totals.GrandTotal, &q.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan quotation: %w", err)
		}
		q.Context.Mode = catalog.TestMode(mode)
		q.Context.Route = pricing.Route(route)
		q.Context.Standard = pricing.Standard(standard)
		out = append(out, q)
	}
	return out, total, rows.Err()
}
