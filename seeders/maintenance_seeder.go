package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func seedMaintenance(ctx context.Context, tx pgx.Tx, equipment map[string]uint64, now time.Time) (int, error) {
	count := 0
	for _, m := range maintenanceData {
		equipmentID, ok := equipment[m.TagNumber]
		if !ok {
			return count, fmt.Errorf("оборудование %s не найдено", m.TagNumber)
		}
		date := now.Add(time.Duration(m.DaysFromNow) * day)

		var completed *time.Time
		if m.Status == "completed" {
			completed = &date
		}

		var id uint64
		err := tx.QueryRow(ctx, `INSERT INTO maintenance (equipment_id, type, status, priority, date, scheduled_date,
				completed_date, technician, cost)
			VALUES ($1, $2, $3, $4, $5, $5, $6, NULLIF($7, ''), NULLIF($8, 0)) RETURNING id`,
			equipmentID, m.Type, m.Status, m.Priority, date, completed, m.Technician, m.Cost,
		).Scan(&id)
		if err != nil {
			return count, err
		}
		count++

		for _, note := range m.Notes {
			if _, err := tx.Exec(ctx, `INSERT INTO maintenance_notes (maintenance_id, note, created_by) VALUES ($1, $2, $3)`,
				id, note, m.Technician); err != nil {
				return count, err
			}
		}
		for _, item := range m.Checklist {
			if _, err := tx.Exec(ctx, `INSERT INTO maintenance_checklist (maintenance_id, item_description) VALUES ($1, $2)`,
				id, item); err != nil {
				return count, err
			}
		}
		for _, p := range m.Parts {
			if _, err := tx.Exec(ctx, `INSERT INTO maintenance_parts (maintenance_id, part_name, part_number, quantity, cost, supplier)
				VALUES ($1, $2, $3, $4, $5, $6)`, id, p.Name, p.Number, p.Quantity, p.Cost, p.Supplier); err != nil {
				return count, err
			}
		}
	}
	return count, nil
}

func seedRequests(ctx context.Context, tx pgx.Tx, equipment map[string]uint64, now time.Time) (int, error) {
	for i, r := range requestData {
		equipmentID, ok := equipment[r.TagNumber]
		if !ok {
			return i, fmt.Errorf("оборудование %s не найдено", r.TagNumber)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO maintenance_requests (equipment_id, requested_by, request_date, priority, status, description)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			equipmentID, r.RequestedBy, now.Add(time.Duration(r.DaysFromNow)*day), r.Priority, r.Status, r.Description,
		); err != nil {
			return i, err
		}
	}
	return len(requestData), nil
}
