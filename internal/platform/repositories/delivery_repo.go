package repositories

import (
	"database/sql"

	"hookrelay/internal/platform/models"
)

type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Reserve claims a delivery ID. It returns false when the ID was
// already recorded, which marks the delivery as a duplicate.
func (r *DeliveryRepository) Reserve(d *models.Delivery) (bool, error) {
	res, err := r.db.Exec(
		`INSERT OR IGNORE INTO deliveries (id, event_type, template, outcome, status_code, error, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.EventType, d.Template, d.Outcome, d.StatusCode, d.Error, d.ReceivedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateOutcome records the terminal state of a delivery.
func (r *DeliveryRepository) UpdateOutcome(d *models.Delivery) error {
	_, err := r.db.Exec(
		`UPDATE deliveries SET template = ?, outcome = ?, status_code = ?, error = ? WHERE id = ?`,
		d.Template, d.Outcome, d.StatusCode, d.Error, d.ID,
	)
	return err
}

func (r *DeliveryRepository) List(limit int) ([]*models.Delivery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, event_type, template, outcome, status_code, error, received_at
		 FROM deliveries ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(&d.ID, &d.EventType, &d.Template, &d.Outcome, &d.StatusCode, &d.Error, &d.ReceivedAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, &d)
	}
	return deliveries, rows.Err()
}
