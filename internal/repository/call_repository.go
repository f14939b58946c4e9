package repository

import (
	"database/sql"
	"time"

	"github.com/voxblast/callcenter-backend/internal/model"
)

type CallRepositoryInterface interface {
	Create(call *model.Call) error
	ListByUser(userID, limit int) ([]*model.Call, error)
	Stats() (map[string]int, error)
}

// CallRepository is the append-only call attempt history.
type CallRepository struct {
	DB *sql.DB
}

func (r *CallRepository) Create(call *model.Call) error {
	call.Timestamp = time.Now()
	if call.CreditsCost == 0 {
		call.CreditsCost = 1
	}
	query := `
        INSERT INTO calls (call_from, call_to, region, status, call_id, error_message, user_id, credits_cost, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(query, call.CallFrom, call.CallTo, call.Region, call.Status,
		call.CallID, call.ErrorMessage, call.UserID, call.CreditsCost, call.Timestamp).Scan(&call.ID)
}

func (r *CallRepository) ListByUser(userID, limit int) ([]*model.Call, error) {
	rows, err := r.DB.Query(`
        SELECT id, call_from, call_to, region, status, call_id, error_message, user_id, credits_cost, timestamp
        FROM calls WHERE user_id=$1 ORDER BY timestamp DESC LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := []*model.Call{}
	for rows.Next() {
		var c model.Call
		if err := rows.Scan(&c.ID, &c.CallFrom, &c.CallTo, &c.Region, &c.Status,
			&c.CallID, &c.ErrorMessage, &c.UserID, &c.CreditsCost, &c.Timestamp); err != nil {
			return nil, err
		}
		calls = append(calls, &c)
	}
	return calls, rows.Err()
}

func (r *CallRepository) Stats() (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT status, COUNT(*) FROM calls GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"total": 0, "completed": 0, "failed": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		if _, ok := stats[status]; ok {
			stats[status] = count
		}
		stats["total"] += count
	}
	return stats, rows.Err()
}

var _ CallRepositoryInterface = (*CallRepository)(nil)
