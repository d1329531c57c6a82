package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
)

// CitySearch defines the filter, sort and page window for a city query.
// Limit/Offset are assumed pre-clamped by the caller.
type CitySearch struct {
	Term   string // case-insensitive substring match on name, empty = all
	SortBy string // name | population | createddate, anything else = name
	Desc   bool
	Limit  int
	Offset int
}

// citySortColumns whitelists sortable columns; user input never reaches SQL
// unmapped.
var citySortColumns = map[string]string{
	"name":        "name",
	"population":  "population",
	"createddate": "created_date",
}

type CityRepo struct{ DB *sql.DB }

func NewCityRepo(db *sql.DB) *CityRepo { return &CityRepo{DB: db} }

// GetAll returns every city ordered by name.
func (r *CityRepo) GetAll(ctx context.Context) ([]model.City, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, population, created_date FROM cities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCities(rows)
}

// GetByID fetches one city or ErrCityNotFound.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (*model.City, error) {
	var c model.City
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, population, created_date FROM cities WHERE id = ? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Population, &c.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts the city and populates ID and CreatedDate.
func (r *CityRepo) Create(ctx context.Context, c *model.City) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cities (name, population) VALUES (?,?)", c.Name, c.Population)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_date FROM cities WHERE id = ?", c.ID).Scan(&c.CreatedDate)
}

// Update persists name and population changes.
func (r *CityRepo) Update(ctx context.Context, c *model.City) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cities SET name = ?, population = ? WHERE id = ?",
		c.Name, c.Population, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCityNotFound
	}
	return nil
}

// Delete removes a city. It reports false when no row matched.
func (r *CityRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cities WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search runs the filtered, sorted, windowed query plus an independent COUNT
// over the same filter so pagination metadata covers all matches.
func (r *CityRepo) Search(ctx context.Context, q CitySearch) ([]model.City, int64, error) {
	cond := "1=1"
	args := []any{}
	if q.Term != "" {
		cond = "LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(q.Term)+"%")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cities WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := citySortColumns[strings.ToLower(q.SortBy)]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	dataSQL := "SELECT id, name, population, created_date FROM cities WHERE " + cond +
		" ORDER BY " + col + " " + dir + " LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), q.Limit, q.Offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectCities(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectCities(rows *sql.Rows) ([]model.City, error) {
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Population, &c.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
