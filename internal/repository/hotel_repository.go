package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
)

type HotelRepo struct{ DB *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{DB: db} }

const hotelSelect = `SELECT h.id, h.name, h.stars, h.city_id, c.name, h.created_date
	FROM hotels h JOIN cities c ON c.id = h.city_id`

// GetAll returns every hotel with its city name joined in.
func (r *HotelRepo) GetAll(ctx context.Context) ([]model.Hotel, error) {
	rows, err := r.DB.QueryContext(ctx, hotelSelect+" ORDER BY h.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHotels(rows)
}

// GetByID fetches one hotel or ErrHotelNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	var h model.Hotel
	err := r.DB.QueryRowContext(ctx, hotelSelect+" WHERE h.id = ? LIMIT 1", id).
		Scan(&h.ID, &h.Name, &h.Stars, &h.CityID, &h.CityName, &h.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByCity returns the hotels of one city ordered by name.
func (r *HotelRepo) GetByCity(ctx context.Context, cityID uint64) ([]model.Hotel, error) {
	rows, err := r.DB.QueryContext(ctx, hotelSelect+" WHERE h.city_id = ? ORDER BY h.name", cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHotels(rows)
}

// Create inserts the hotel and populates ID and CreatedDate.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hotels (name, stars, city_id) VALUES (?,?,?)",
		h.Name, h.Stars, h.CityID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_date FROM hotels WHERE id = ?", h.ID).Scan(&h.CreatedDate)
}

// Update persists name, stars and city changes.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE hotels SET name = ?, stars = ?, city_id = ? WHERE id = ?",
		h.Name, h.Stars, h.CityID, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHotelNotFound
	}
	return nil
}

// Delete removes a hotel. It reports false when no row matched.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM hotels WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func collectHotels(rows *sql.Rows) ([]model.Hotel, error) {
	out := []model.Hotel{}
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Stars, &h.CityID, &h.CityName, &h.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
