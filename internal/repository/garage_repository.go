package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
)

type GarageRepo struct{ DB *sql.DB }

func NewGarageRepo(db *sql.DB) *GarageRepo { return &GarageRepo{DB: db} }

const garageSelect = `SELECT g.id, g.name, g.capacity, g.hotel_id, h.name, g.created_date
	FROM garages g JOIN hotels h ON h.id = g.hotel_id`

// GetAll returns every garage with its hotel name joined in.
func (r *GarageRepo) GetAll(ctx context.Context) ([]model.Garage, error) {
	rows, err := r.DB.QueryContext(ctx, garageSelect+" ORDER BY g.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGarages(rows)
}

// GetByID fetches one garage or ErrGarageNotFound.
func (r *GarageRepo) GetByID(ctx context.Context, id uint64) (*model.Garage, error) {
	var g model.Garage
	err := r.DB.QueryRowContext(ctx, garageSelect+" WHERE g.id = ? LIMIT 1", id).
		Scan(&g.ID, &g.Name, &g.Capacity, &g.HotelID, &g.HotelName, &g.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGarageNotFound
		}
		return nil, err
	}
	return &g, nil
}

// GetByHotel returns the garages of one hotel ordered by name.
func (r *GarageRepo) GetByHotel(ctx context.Context, hotelID uint64) ([]model.Garage, error) {
	rows, err := r.DB.QueryContext(ctx, garageSelect+" WHERE g.hotel_id = ? ORDER BY g.name", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGarages(rows)
}

// AvailableSpaces returns capacity minus parked cars, never negative.
// ErrGarageNotFound when the garage does not exist.
func (r *GarageRepo) AvailableSpaces(ctx context.Context, id uint64) (int, error) {
	var capacity, parked int
	err := r.DB.QueryRowContext(ctx,
		`SELECT g.capacity, COUNT(c.id) FROM garages g
		 LEFT JOIN cars c ON c.garage_id = g.id
		 WHERE g.id = ? GROUP BY g.capacity`, id).
		Scan(&capacity, &parked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrGarageNotFound
		}
		return 0, err
	}
	if parked >= capacity {
		return 0, nil
	}
	return capacity - parked, nil
}

// Create inserts the garage and populates ID and CreatedDate.
func (r *GarageRepo) Create(ctx context.Context, g *model.Garage) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO garages (name, capacity, hotel_id) VALUES (?,?,?)",
		g.Name, g.Capacity, g.HotelID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_date FROM garages WHERE id = ?", g.ID).Scan(&g.CreatedDate)
}

// Update persists name, capacity and hotel changes.
func (r *GarageRepo) Update(ctx context.Context, g *model.Garage) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE garages SET name = ?, capacity = ?, hotel_id = ? WHERE id = ?",
		g.Name, g.Capacity, g.HotelID, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGarageNotFound
	}
	return nil
}

// Delete removes a garage. It reports false when no row matched.
func (r *GarageRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM garages WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func collectGarages(rows *sql.Rows) ([]model.Garage, error) {
	out := []model.Garage{}
	for rows.Next() {
		var g model.Garage
		if err := rows.Scan(&g.ID, &g.Name, &g.Capacity, &g.HotelID, &g.HotelName, &g.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
