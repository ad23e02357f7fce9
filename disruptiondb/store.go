package disruptiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"disruptions.onebusaway.org/internal/logging"
	"disruptions.onebusaway.org/internal/workarounds"
)

// Record is a disruption row together with its ordered children.
type Record struct {
	Disruption       Disruption
	AffectedEntities []workarounds.AffectedEntity
	Workarounds      []workarounds.Workaround
}

// InsertDisruption creates the disruption row and its children in one transaction.
func (c *Client) InsertDisruption(ctx context.Context, params CreateDisruptionParams, entities []workarounds.AffectedEntity, ws []workarounds.Workaround) (Record, error) {
	var rec Record
	err := c.inTx(ctx, "insert_disruption", func(q *Queries) error {
		d, err := q.CreateDisruption(ctx, params)
		if err != nil {
			return fmt.Errorf("create disruption: %w", err)
		}
		if err := writeAffectedEntities(ctx, q, d.ID, entities); err != nil {
			return err
		}
		if err := writeWorkarounds(ctx, q, d.ID, ws); err != nil {
			return err
		}
		rec, err = loadRecord(ctx, q, d)
		return err
	})
	if err != nil {
		return Record{}, err
	}

	logging.LogOperation(c.logger, "disruption_inserted",
		slog.Int64("disruption_id", rec.Disruption.ID),
		slog.Int("affected_entities", len(rec.AffectedEntities)),
		slog.Int("workarounds", len(rec.Workarounds)))
	return rec, nil
}

// LoadDisruption returns the disruption with its children, or ErrNotFound.
func (c *Client) LoadDisruption(ctx context.Context, id int64) (Record, error) {
	d, err := c.Queries.GetDisruption(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get disruption %d: %w", id, err)
	}
	return loadRecord(ctx, c.Queries, d)
}

// ListRecords returns every disruption, newest start time first. A non-empty
// status restricts the list to that status.
func (c *Client) ListRecords(ctx context.Context, status string) ([]Record, error) {
	var (
		rows []Disruption
		err  error
	)
	if status == "" {
		rows, err = c.Queries.ListDisruptions(ctx)
	} else {
		rows, err = c.Queries.ListDisruptionsByStatus(ctx, status)
	}
	if err != nil {
		return nil, fmt.Errorf("list disruptions: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, d := range rows {
		rec, err := loadRecord(ctx, c.Queries, d)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveDisruption updates the disruption row and replaces both child lists.
func (c *Client) SaveDisruption(ctx context.Context, params UpdateDisruptionParams, entities []workarounds.AffectedEntity, ws []workarounds.Workaround) (Record, error) {
	var rec Record
	err := c.inTx(ctx, "save_disruption", func(q *Queries) error {
		d, err := q.UpdateDisruption(ctx, params)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update disruption %d: %w", params.ID, err)
		}
		if err := replaceAffectedEntities(ctx, q, d.ID, entities); err != nil {
			return err
		}
		if err := replaceWorkarounds(ctx, q, d.ID, ws); err != nil {
			return err
		}
		rec, err = loadRecord(ctx, q, d)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ReplaceAffectedEntities swaps the entity list and the workarounds that
// were reconciled against it.
func (c *Client) ReplaceAffectedEntities(ctx context.Context, id int64, entities []workarounds.AffectedEntity, ws []workarounds.Workaround, updatedAt int64) (Record, error) {
	return c.replaceChildren(ctx, "replace_affected_entities", id, updatedAt, func(q *Queries) error {
		if err := replaceAffectedEntities(ctx, q, id, entities); err != nil {
			return err
		}
		return replaceWorkarounds(ctx, q, id, ws)
	})
}

// ReplaceWorkarounds swaps the workaround list of a disruption.
func (c *Client) ReplaceWorkarounds(ctx context.Context, id int64, ws []workarounds.Workaround, updatedAt int64) (Record, error) {
	return c.replaceChildren(ctx, "replace_workarounds", id, updatedAt, func(q *Queries) error {
		return replaceWorkarounds(ctx, q, id, ws)
	})
}

func (c *Client) replaceChildren(ctx context.Context, operation string, id, updatedAt int64, fn func(q *Queries) error) (Record, error) {
	var rec Record
	err := c.inTx(ctx, operation, func(q *Queries) error {
		if _, err := q.GetDisruption(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("get disruption %d: %w", id, err)
		}
		if err := fn(q); err != nil {
			return err
		}
		if err := q.TouchDisruption(ctx, TouchDisruptionParams{LastUpdatedAt: updatedAt, ID: id}); err != nil {
			return fmt.Errorf("touch disruption %d: %w", id, err)
		}
		d, err := q.GetDisruption(ctx, id)
		if err != nil {
			return fmt.Errorf("reload disruption %d: %w", id, err)
		}
		rec, err = loadRecord(ctx, q, d)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RemoveDisruption deletes the disruption and its children.
func (c *Client) RemoveDisruption(ctx context.Context, id int64) error {
	return c.inTx(ctx, "remove_disruption", func(q *Queries) error {
		if err := q.ClearWorkarounds(ctx, id); err != nil {
			return fmt.Errorf("clear workarounds: %w", err)
		}
		if err := q.ClearAffectedEntities(ctx, id); err != nil {
			return fmt.Errorf("clear affected entities: %w", err)
		}
		n, err := q.DeleteDisruption(ctx, id)
		if err != nil {
			return fmt.Errorf("delete disruption %d: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func replaceAffectedEntities(ctx context.Context, q *Queries, id int64, entities []workarounds.AffectedEntity) error {
	if err := q.ClearAffectedEntities(ctx, id); err != nil {
		return fmt.Errorf("clear affected entities: %w", err)
	}
	return writeAffectedEntities(ctx, q, id, entities)
}

func replaceWorkarounds(ctx context.Context, q *Queries, id int64, ws []workarounds.Workaround) error {
	if err := q.ClearWorkarounds(ctx, id); err != nil {
		return fmt.Errorf("clear workarounds: %w", err)
	}
	return writeWorkarounds(ctx, q, id, ws)
}

func writeAffectedEntities(ctx context.Context, q *Queries, id int64, entities []workarounds.AffectedEntity) error {
	for i, e := range entities {
		err := q.CreateAffectedEntity(ctx, CreateAffectedEntityParams{
			DisruptionID:   id,
			Position:       int64(i),
			EntityType:     string(e.Type),
			RouteID:        toNullString(e.RouteID),
			RouteShortName: toNullString(e.RouteShortName),
			StopID:         toNullString(e.StopID),
			StopCode:       toNullString(e.StopCode),
			StopName:       toNullString(e.StopName),
		})
		if err != nil {
			return fmt.Errorf("create affected entity %d: %w", i, err)
		}
	}
	return nil
}

func writeWorkarounds(ctx context.Context, q *Queries, id int64, ws []workarounds.Workaround) error {
	for i, w := range ws {
		err := q.CreateWorkaround(ctx, CreateWorkaroundParams{
			DisruptionID:   id,
			Position:       int64(i),
			WorkaroundType: string(w.Type),
			Workaround:     w.Workaround,
			RouteShortName: toNullString(w.RouteShortName),
			StopCode:       toNullString(w.StopCode),
		})
		if err != nil {
			return fmt.Errorf("create workaround %d: %w", i, err)
		}
	}
	return nil
}

func loadRecord(ctx context.Context, q *Queries, d Disruption) (Record, error) {
	entityRows, err := q.ListAffectedEntities(ctx, d.ID)
	if err != nil {
		return Record{}, fmt.Errorf("list affected entities: %w", err)
	}
	workaroundRows, err := q.ListWorkarounds(ctx, d.ID)
	if err != nil {
		return Record{}, fmt.Errorf("list workarounds: %w", err)
	}

	rec := Record{
		Disruption:       d,
		AffectedEntities: make([]workarounds.AffectedEntity, 0, len(entityRows)),
		Workarounds:      make([]workarounds.Workaround, 0, len(workaroundRows)),
	}
	for _, row := range entityRows {
		rec.AffectedEntities = append(rec.AffectedEntities, workarounds.AffectedEntity{
			RouteID:        row.RouteID.String,
			RouteShortName: row.RouteShortName.String,
			StopID:         row.StopID.String,
			StopCode:       row.StopCode.String,
			StopName:       row.StopName.String,
			Type:           workarounds.EntityType(row.EntityType),
		})
	}
	for _, row := range workaroundRows {
		rec.Workarounds = append(rec.Workarounds, workarounds.Workaround{
			Type:           workarounds.WorkaroundType(row.WorkaroundType),
			Workaround:     row.Workaround,
			RouteShortName: row.RouteShortName.String,
			StopCode:       row.StopCode.String,
		})
	}
	return rec, nil
}
