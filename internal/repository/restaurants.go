// Package repository is the data access layer for the restaurants table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"melp-api/internal/models"
	"melp-api/internal/stats"
)

// RestaurantRepository is the typed CRUD surface the HTTP layer depends on.
type RestaurantRepository interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	Get(ctx context.Context, id string) (models.Restaurant, error)
	Create(ctx context.Context, r models.Restaurant) (models.Restaurant, error)
	Update(ctx context.Context, id string, patch models.RestaurantPatch) (models.Restaurant, error)
	Delete(ctx context.Context, id string) error
	RatingsWithin(ctx context.Context, box stats.BoundingBox) ([]int, error)
}

const restaurantColumns = `id, rating, name, site, email, phone, street, city, state, lat, lng`

// SQLRepository implements RestaurantRepository on a database/sql pool.
// Queries use $n placeholders numbered in order of appearance.
type SQLRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.Rating, &r.Name, &r.Site, &r.Email, &r.Phone,
		&r.Street, &r.City, &r.State, &r.Lat, &r.Lng)
	return r, err
}

// List returns every restaurant in the database's natural order.
func (s *SQLRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	out := []models.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

func (s *SQLRepository) Get(ctx context.Context, id string) (models.Restaurant, error) {
	return getRestaurant(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRestaurant(ctx context.Context, q queryRower, id string) (models.Restaurant, error) {
	r, err := scanRestaurant(q.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	return r, nil
}

// Create inserts r. A taken id yields ErrConflict.
func (s *SQLRepository) Create(ctx context.Context, r models.Restaurant) (models.Restaurant, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO restaurants (`+restaurantColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			r.ID, r.Rating, r.Name, r.Site, r.Email, r.Phone, r.Street, r.City, r.State, r.Lat, r.Lng)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert restaurant %s: %w", r.ID, err)
		}
		return nil
	})
	if err != nil {
		return models.Restaurant{}, err
	}
	return r, nil
}

// Update loads the row, merges patch into it and writes every mutable
// column back, all in one transaction.
func (s *SQLRepository) Update(ctx context.Context, id string, patch models.RestaurantPatch) (models.Restaurant, error) {
	var out models.Restaurant
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		r, err := getRestaurant(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(&r)

		_, err = tx.ExecContext(ctx, `
			UPDATE restaurants
			SET rating = $1, name = $2, site = $3, email = $4, phone = $5,
			    street = $6, city = $7, state = $8, lat = $9, lng = $10
			WHERE id = $11`,
			r.Rating, r.Name, r.Site, r.Email, r.Phone, r.Street, r.City, r.State, r.Lat, r.Lng, id)
		if err != nil {
			return fmt.Errorf("update restaurant %s: %w", id, err)
		}
		out = r
		return nil
	})
	if err != nil {
		return models.Restaurant{}, err
	}
	return out, nil
}

func (s *SQLRepository) Delete(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete restaurant %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete restaurant %s: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RatingsWithin returns the ratings of restaurants inside box. Rows with a
// NULL rating or position never match.
func (s *SQLRepository) RatingsWithin(ctx context.Context, box stats.BoundingBox) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rating FROM restaurants
		WHERE lat BETWEEN $1 AND $2
		  AND lng BETWEEN $3 AND $4
		  AND rating IS NOT NULL`,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	return ratings, nil
}

// Ping checks the pool can reach the database.
func (s *SQLRepository) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// inTx runs fn in a transaction, committing on success and rolling back on
// any error.
func (s *SQLRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
