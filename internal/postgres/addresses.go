package postgres

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

const addressColumns = `id, user_id, name, email, phone, street, city, country, is_default, created_at`

func (t *Tx) scanAddress(row interface{ Scan(...any) error }) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.Phone, &a.Street, &a.City, &a.Country, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("address not found")
		}
		return nil, err
	}
	return &a, nil
}

func (t *Tx) Address(ctx context.Context, id string) (*domain.Address, error) {
	return t.scanAddress(t.tx.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id=$1`, id))
}

func (t *Tx) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+addressColumns+` FROM addresses
		WHERE user_id=$1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.Phone, &a.Street, &a.City, &a.Country, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (t *Tx) CountAddresses(ctx context.Context, userID string) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}

func (t *Tx) InsertAddress(ctx context.Context, addr *domain.Address) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO addresses(id, user_id, name, email, phone, street, city, country, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		addr.ID, addr.UserID, addr.Name, addr.Email, addr.Phone, addr.Street, addr.City, addr.Country, addr.IsDefault, addr.CreatedAt)
	return err
}

func (t *Tx) UpdateAddress(ctx context.Context, addr *domain.Address) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE addresses SET name=$2, email=$3, phone=$4, street=$5, city=$6, country=$7, is_default=$8
		WHERE id=$1`,
		addr.ID, addr.Name, addr.Email, addr.Phone, addr.Street, addr.City, addr.Country, addr.IsDefault)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("address not found")
	}
	return nil
}

func (t *Tx) DeleteAddress(ctx context.Context, id string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM addresses WHERE id=$1`, id)
	return err
}

func (t *Tx) ClearDefaultAddress(ctx context.Context, userID string) error {
	_, err := t.tx.Exec(ctx, `UPDATE addresses SET is_default=false WHERE user_id=$1 AND is_default`, userID)
	return err
}

func (t *Tx) AddressOrderCount(ctx context.Context, addressID string) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE address_id=$1`, addressID).Scan(&n)
	return n, err
}
