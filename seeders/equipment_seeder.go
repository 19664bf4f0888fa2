package seeders

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const day = 24 * time.Hour

// seedEquipment возвращает id оборудования по инвентарному номеру.
func seedEquipment(ctx context.Context, tx pgx.Tx, departments map[string]uint64, now time.Time) (map[string]uint64, error) {
	ids := make(map[string]uint64, len(equipmentData))
	for _, e := range equipmentData {
		var departmentID *uint64
		if id, ok := departments[e.Department]; ok {
			departmentID = &id
		}
		var warrantyExpiry *time.Time
		if e.WarrantyDays != 0 {
			t := now.Add(time.Duration(e.WarrantyDays) * day)
			warrantyExpiry = &t
		}
		installed := now.AddDate(-e.InstalledYearsAgo, 0, 0)

		var id uint64
		err := tx.QueryRow(ctx, `INSERT INTO equipment (name, manufacturer, model, serial_number, tag_number,
				country_of_origin, year_of_manufacture, department_id, status, purchase_cost, warranty_expiry,
				date_of_installation, purchase_date, has_service_contract)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12, $13) RETURNING id`,
			e.Name, e.Manufacturer, e.Model, e.SerialNumber, e.TagNumber, e.CountryOfOrigin, e.YearOfManufacture,
			departmentID, e.Status, e.PurchaseCost, warrantyExpiry, installed, e.ServiceContract,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[e.TagNumber] = id

		for _, spec := range e.Specifications {
			if _, err := tx.Exec(ctx, `INSERT INTO equipment_specifications (equipment_id, specification_key, specification_value)
				VALUES ($1, $2, $3)`, id, spec[0], spec[1]); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}
