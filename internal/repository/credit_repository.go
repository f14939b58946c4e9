package repository

import (
	"database/sql"
)

// CreditRepositoryInterface defines the metered credit ledger used by
// services and the dispatcher.
type CreditRepositoryInterface interface {
	GetBalance(userID int) (int, error)
	Deduct(userID, amount int) (bool, error)
	Add(userID, amount int) error
	Set(userID, amount int) error
}

// CreditRepository keeps per-user balances in the user_credits table.
type CreditRepository struct {
	DB *sql.DB
}

// GetBalance returns the current balance, 0 for unknown users.
func (r *CreditRepository) GetBalance(userID int) (int, error) {
	var credits int
	err := r.DB.QueryRow(`SELECT credits FROM user_credits WHERE user_id=$1`, userID).Scan(&credits)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return credits, nil
}

// Deduct atomically decrements the balance if it covers amount. The guard
// lives in the WHERE clause so concurrent deductions can never drive the
// balance negative. Returns false when funds are insufficient; that is a
// normal outcome, not an error.
func (r *CreditRepository) Deduct(userID, amount int) (bool, error) {
	res, err := r.DB.Exec(`
        UPDATE user_credits
        SET credits = credits - $2, updated_at = NOW()
        WHERE user_id = $1 AND credits >= $2
    `, userID, amount)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Add unconditionally grants credits, creating the ledger row if needed.
func (r *CreditRepository) Add(userID, amount int) error {
	_, err := r.DB.Exec(`
        INSERT INTO user_credits (user_id, credits, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id)
        DO UPDATE SET credits = user_credits.credits + EXCLUDED.credits, updated_at = NOW()
    `, userID, amount)
	return err
}

// Set overwrites the balance, creating the ledger row if needed.
func (r *CreditRepository) Set(userID, amount int) error {
	_, err := r.DB.Exec(`
        INSERT INTO user_credits (user_id, credits, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id)
        DO UPDATE SET credits = EXCLUDED.credits, updated_at = NOW()
    `, userID, amount)
	return err
}

var _ CreditRepositoryInterface = (*CreditRepository)(nil)
