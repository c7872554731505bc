// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// collection.go executes a reconcile.Plan for one child collection inside
// an open transaction. Every aggregate store drives each of its collections
// through the same reconcileCollection call, parameterized by a small
// collectionSpec, so the delete/insert/update choreography exists once.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"clinicms/internal/reconcile"
)

// collectionSpec describes how one child collection maps onto its table.
type collectionSpec struct {
	table     string
	parentCol string
	// cols are the domain columns written on insert and update, in the
	// order the bind function yields their values. display_order is one
	// of them: the server persists submitted ranks verbatim.
	cols []string
}

// reconcileCollection diffs the submitted items against the rows persisted
// under parentID and applies the plan: delete pass first, then inserts in
// submitted order (capturing generated ids), then updates in place.
//
// resolved, when non-nil, is invoked once per surviving item with its
// authoritative id — the generated id for inserts, the existing id for
// updates — so callers can reconcile grandchildren under it before the
// transaction moves on.
func reconcileCollection[T reconcile.Item](
	ctx context.Context,
	tx *sql.Tx,
	spec collectionSpec,
	parentID int64,
	submitted []T,
	bind func(T) []any,
	resolved func(item T, id int64) error,
) error {
	persisted, err := persistedIDs(ctx, tx, spec, parentID)
	if err != nil {
		return err
	}

	plan := reconcile.Diff(persisted, submitted)

	if err := deleteRows(ctx, tx, spec, parentID, plan.ToDelete); err != nil {
		return err
	}

	for _, item := range plan.ToInsert {
		id, err := insertRow(ctx, tx, spec, parentID, bind(item))
		if err != nil {
			return err
		}
		if resolved != nil {
			if err := resolved(item, id); err != nil {
				return err
			}
		}
	}

	for _, item := range plan.ToUpdate {
		if err := updateRow(ctx, tx, spec, parentID, item.ItemID(), bind(item)); err != nil {
			return err
		}
		if resolved != nil {
			if err := resolved(item, item.ItemID()); err != nil {
				return err
			}
		}
	}

	return nil
}

// persistedIDs returns the ids currently stored under parentID.
func persistedIDs(ctx context.Context, tx *sql.Tx, spec collectionSpec, parentID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE %s = $1", spec.table, spec.parentCol),
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", spec.table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", spec.table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// deleteRows removes the planned ids, still scoped to the parent. The
// statement is skipped entirely when the plan deletes nothing, so no empty
// IN list ever reaches the database.
func deleteRows(ctx context.Context, tx *sql.Tx, spec collectionSpec, parentID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, parentID)
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args = append(args, id)
		placeholders[i] = "$" + strconv.Itoa(i+2)
	}

	_, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND id IN (%s)",
			spec.table, spec.parentCol, strings.Join(placeholders, ", ")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("delete %s rows: %w", spec.table, err)
	}
	return nil
}

// insertRow writes one new child row and returns the generated id. The
// client-side placeholder id never reaches the database.
func insertRow(ctx context.Context, tx *sql.Tx, spec collectionSpec, parentID int64, values []any) (int64, error) {
	cols := append([]string{spec.parentCol}, spec.cols...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	args := append([]any{parentID}, values...)

	var id int64
	err := tx.QueryRowContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			spec.table, strings.Join(cols, ", "), strings.Join(placeholders, ", ")),
		args...,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert %s row: %w", spec.table, err)
	}
	return id, nil
}

// updateRow overwrites all domain columns of an existing child row. An id
// the store no longer has matches zero rows; that save still succeeds (the
// row was deleted by another session and stays deleted), logged for
// operators.
func updateRow(ctx context.Context, tx *sql.Tx, spec collectionSpec, parentID, id int64, values []any) error {
	assignments := make([]string, len(spec.cols))
	for i, col := range spec.cols {
		assignments[i] = col + " = $" + strconv.Itoa(i+1)
	}

	args := append(append([]any{}, values...), id, parentID)

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d AND %s = $%d",
			spec.table, strings.Join(assignments, ", "),
			len(spec.cols)+1, spec.parentCol, len(spec.cols)+2),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update %s row: %w", spec.table, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.Debug("update matched no rows, item was removed elsewhere",
			"table", spec.table,
			"id", id,
		)
	}
	return nil
}
