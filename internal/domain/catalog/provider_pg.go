package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGProvider reads the catalog snapshot from Postgres. It serves deployments
// where the sales team maintains catalog content in the database instead of
// a new release; the shape returned is identical to the builtin tables.
type PGProvider struct{ pool *pgxpool.Pool }

func NewPGProvider(pool *pgxpool.Pool) *PGProvider {
	return &PGProvider{pool: pool}
}

func (p *PGProvider) ModeData(ctx context.Context, mode TestMode) (*ModeData, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}

	data := &ModeData{Mode: mode}

	if err := p.loadItems(ctx, data); err != nil {
		return nil, err
	}
	if err := p.loadCategories(ctx, data); err != nil {
		return nil, err
	}
	if mode == ModeSingle {
		if err := p.loadRelations(ctx, data); err != nil {
			return nil, err
		}
		if err := p.loadOverlays(ctx, data); err != nil {
			return nil, err
		}
	}

	data.buildIndex()
	return data, nil
}

func (p *PGProvider) loadItems(ctx context.Context, data *ModeData) error {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, category, species, duration,
			oral_price, oral_duration, iv_price, iv_duration,
			price_2, price_3, price_4, price_single, flat_price
		FROM catalog_item WHERE mode = $1 ORDER BY sort_order, id`, string(data.Mode))
	if err != nil {
		return fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	kind := data.Mode.Kind()
	for rows.Next() {
		var it Item
		var species, duration, oralDur, ivDur *string
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &species, &duration,
			&it.OralPrice, &oralDur, &it.IVPrice, &ivDur,
			&it.Price2, &it.Price3, &it.Price4, &it.PriceSingle, &it.FlatPrice); err != nil {
			return fmt.Errorf("scan catalog item: %w", err)
		}
		it.Kind = kind
		if species != nil {
			it.Species = *species
		}
		if duration != nil {
			it.Duration = *duration
		}
		if oralDur != nil {
			it.OralDuration = *oralDur
		}
		if ivDur != nil {
			it.IVDuration = *ivDur
		}
		data.Items = append(data.Items, it)
	}
	return rows.Err()
}

func (p *PGProvider) loadCategories(ctx context.Context, data *ModeData) error {
	rows, err := p.pool.Query(ctx,
		`SELECT name FROM catalog_category WHERE mode = $1 ORDER BY sort_order`, string(data.Mode))
	if err != nil {
		return fmt.Errorf("query catalog categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan catalog category: %w", err)
		}
		data.Categories = append(data.Categories, name)
	}
	return rows.Err()
}

func (p *PGProvider) loadRelations(ctx context.Context, data *ModeData) error {
	rows, err := p.pool.Query(ctx, `
		SELECT main_item_id, recovery_item_id, tk_tree, tk_list, tk_single_id
		FROM catalog_relation WHERE mode = $1`, string(data.Mode))
	if err != nil {
		return fmt.Errorf("query catalog relations: %w", err)
	}
	defer rows.Close()

	data.Relations = make(map[int]Relation)
	for rows.Next() {
		var rel Relation
		var tree, list []byte
		if err := rows.Scan(&rel.MainItemID, &rel.RecoveryID, &tree, &list, &rel.TKSingleID); err != nil {
			return fmt.Errorf("scan catalog relation: %w", err)
		}
		if len(tree) > 0 {
			if err := json.Unmarshal(tree, &rel.Tree); err != nil {
				return fmt.Errorf("decode tk tree for item %d: %w", rel.MainItemID, err)
			}
		}
		if len(list) > 0 {
			if err := json.Unmarshal(list, &rel.TKListIDs); err != nil {
				return fmt.Errorf("decode tk list for item %d: %w", rel.MainItemID, err)
			}
		}
		data.Relations[rel.MainItemID] = rel
	}
	return rows.Err()
}

func (p *PGProvider) loadOverlays(ctx context.Context, data *ModeData) error {
	rows, err := p.pool.Query(ctx, `
		SELECT route, item_id, override_price, delta
		FROM catalog_overlay WHERE mode = $1`, string(data.Mode))
	if err != nil {
		return fmt.Errorf("query catalog overlays: %w", err)
	}
	defer rows.Close()

	data.OverlayOral = make(OverlayTable)
	data.OverlayIV = make(OverlayTable)
	for rows.Next() {
		var route string
		var itemID int
		var ov Overlay
		if err := rows.Scan(&route, &itemID, &ov.Override, &ov.Delta); err != nil {
			return fmt.Errorf("scan catalog overlay: %w", err)
		}
		switch route {
		case "oral":
			data.OverlayOral[itemID] = ov
		case "iv":
			data.OverlayIV[itemID] = ov
		default:
			return fmt.Errorf("unknown overlay route %q for item %d", route, itemID)
		}
	}
	return rows.Err()
}
