package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cheerioskun/teesheet/internal/models"
)

const (
	teeTimesPath = "/api/teetimes/"
	golfersPath  = "/api/golfers/"
	bookingsPath = "/api/bookings/"
)

// ListTeeTimes returns every tee time ordered by start time
func (c *Client) ListTeeTimes(ctx context.Context) ([]models.TeeTime, error) {
	var out []models.TeeTime
	query := url.Values{"ordering": []string{"start_time"}}
	if err := c.do(ctx, http.MethodGet, teeTimesPath, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTeeTime fetches one tee time
func (c *Client) GetTeeTime(ctx context.Context, id int) (models.TeeTime, error) {
	var out models.TeeTime
	err := c.do(ctx, http.MethodGet, resourcePath("teetimes", id), nil, nil, &out)
	return out, err
}

// CreateTeeTime creates one tee time
func (c *Client) CreateTeeTime(ctx context.Context, teeTime models.GeneratedTeeTime) (models.TeeTime, error) {
	var out models.TeeTime
	err := c.do(ctx, http.MethodPost, teeTimesPath, nil, teeTime, &out)
	return out, err
}

// UpdateTeeTime replaces a tee time
func (c *Client) UpdateTeeTime(ctx context.Context, id int, teeTime models.GeneratedTeeTime) (models.TeeTime, error) {
	var out models.TeeTime
	err := c.do(ctx, http.MethodPut, resourcePath("teetimes", id), nil, teeTime, &out)
	return out, err
}

// DeleteTeeTime removes a tee time
func (c *Client) DeleteTeeTime(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, resourcePath("teetimes", id), nil, nil, nil)
}

// ListGolfers returns every golfer
func (c *Client) ListGolfers(ctx context.Context) ([]models.Golfer, error) {
	var out []models.Golfer
	if err := c.do(ctx, http.MethodGet, golfersPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGolfer fetches one golfer
func (c *Client) GetGolfer(ctx context.Context, id int) (models.Golfer, error) {
	var out models.Golfer
	err := c.do(ctx, http.MethodGet, resourcePath("golfers", id), nil, nil, &out)
	return out, err
}

// CreateGolfer creates a golfer; the id field is ignored
func (c *Client) CreateGolfer(ctx context.Context, golfer models.Golfer) (models.Golfer, error) {
	golfer.ID = 0
	var out models.Golfer
	err := c.do(ctx, http.MethodPost, golfersPath, nil, golfer, &out)
	return out, err
}

// UpdateGolfer replaces a golfer
func (c *Client) UpdateGolfer(ctx context.Context, id int, golfer models.Golfer) (models.Golfer, error) {
	golfer.ID = 0
	var out models.Golfer
	err := c.do(ctx, http.MethodPut, resourcePath("golfers", id), nil, golfer, &out)
	return out, err
}

// DeleteGolfer removes a golfer
func (c *Client) DeleteGolfer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, resourcePath("golfers", id), nil, nil, nil)
}

// ListBookings returns every booking with nested tee time and golfer
func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.do(ctx, http.MethodGet, bookingsPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBooking books players onto a tee time. The API rejects bookings
// larger than the tee time's remaining slots.
func (c *Client) CreateBooking(ctx context.Context, booking models.BookingInput) (models.Booking, error) {
	var out models.Booking
	err := c.do(ctx, http.MethodPost, bookingsPath, nil, booking, &out)
	return out, err
}

// DeleteBooking cancels a booking and frees its slots
func (c *Client) DeleteBooking(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, resourcePath("bookings", id), nil, nil, nil)
}
