package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
)

type CarRepo struct{ DB *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{DB: db} }

const carSelect = `SELECT c.id, c.brand, c.license_plate, c.owner_name, c.garage_id, g.name, c.created_date
	FROM cars c JOIN garages g ON g.id = c.garage_id`

// GetAll returns every parked car with its garage name joined in.
func (r *CarRepo) GetAll(ctx context.Context) ([]model.Car, error) {
	rows, err := r.DB.QueryContext(ctx, carSelect+" ORDER BY c.license_plate")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCars(rows)
}

// GetByID fetches one car or ErrCarNotFound.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	return scanCar(r.DB.QueryRowContext(ctx, carSelect+" WHERE c.id = ? LIMIT 1", id))
}

// GetByLicensePlate fetches a car by plate, case-insensitively.
func (r *CarRepo) GetByLicensePlate(ctx context.Context, plate string) (*model.Car, error) {
	return scanCar(r.DB.QueryRowContext(ctx,
		carSelect+" WHERE UPPER(c.license_plate) = UPPER(?) LIMIT 1",
		strings.TrimSpace(plate)))
}

// Create parks the car and populates ID and CreatedDate. ErrDuplicate when
// the plate is already parked.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cars (brand, license_plate, owner_name, garage_id) VALUES (?,?,?,?)",
		c.Brand, c.LicensePlate, c.OwnerName, c.GarageID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_date FROM cars WHERE id = ?", c.ID).Scan(&c.CreatedDate)
}

// Update persists brand, plate, owner and garage changes.
func (r *CarRepo) Update(ctx context.Context, c *model.Car) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cars SET brand = ?, license_plate = ?, owner_name = ?, garage_id = ? WHERE id = ?",
		c.Brand, c.LicensePlate, c.OwnerName, c.GarageID, c.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	return nil
}

// Delete removes a car. It reports false when no row matched.
func (r *CarRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cars WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanCar(row *sql.Row) (*model.Car, error) {
	var c model.Car
	err := row.Scan(&c.ID, &c.Brand, &c.LicensePlate, &c.OwnerName, &c.GarageID, &c.GarageName, &c.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCars(rows *sql.Rows) ([]model.Car, error) {
	out := []model.Car{}
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.Brand, &c.LicensePlate, &c.OwnerName, &c.GarageID, &c.GarageName, &c.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
