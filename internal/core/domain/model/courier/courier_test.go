package courier_test

import (
	"testing"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.311081, 69.240562)
	require.NoError(t, err)
	return point
}

func newReadyCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Bekzod", "chat-42", testLocation(t))
	require.NoError(t, err)
	require.NoError(t, c.SetOnline(true))
	require.NoError(t, c.SetVerified(true))
	return c
}

func TestNewCourier(t *testing.T) {
	t.Run("new courier starts offline and free", func(t *testing.T) {
		c, err := courier.NewCourier(kernel.NewUUID(), "Bekzod", "chat-42", testLocation(t))

		require.NoError(t, err)
		assert.False(t, c.IsOnline())
		assert.False(t, c.IsVerified())
		assert.False(t, c.IsAvailable())
		assert.Nil(t, c.ActiveOrder())
		assert.Zero(t, c.CompletedDeliveries())
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.NewUUID(), "", "chat-42", testLocation(t))

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestCourier_Availability(t *testing.T) {
	c := newReadyCourier(t)

	assert.True(t, c.IsAvailable())

	require.NoError(t, c.Claim(kernel.NewUUID()))
	assert.False(t, c.IsAvailable())

	require.NoError(t, c.Release())
	assert.True(t, c.IsAvailable())

	require.NoError(t, c.SetOnline(false))
	assert.False(t, c.IsAvailable())
}

func TestCourier_Claim(t *testing.T) {
	t.Run("claiming a busy courier fails", func(t *testing.T) {
		c := newReadyCourier(t)
		require.NoError(t, c.Claim(kernel.NewUUID()))

		err := c.Claim(kernel.NewUUID())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("claiming an offline courier fails", func(t *testing.T) {
		c := newReadyCourier(t)
		require.NoError(t, c.SetOnline(false))

		err := c.Claim(kernel.NewUUID())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestCourier_CompleteDelivery(t *testing.T) {
	t.Run("frees the courier and increments the counter", func(t *testing.T) {
		c := newReadyCourier(t)
		require.NoError(t, c.Claim(kernel.NewUUID()))

		require.NoError(t, c.CompleteDelivery())

		assert.Nil(t, c.ActiveOrder())
		assert.Equal(t, 1, c.CompletedDeliveries())
	})

	t.Run("fails without an active order", func(t *testing.T) {
		c := newReadyCourier(t)

		err := c.CompleteDelivery()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Zero(t, c.CompletedDeliveries())
	})
}

func TestCourier_AddRating(t *testing.T) {
	t.Run("incremental mean", func(t *testing.T) {
		c := newReadyCourier(t)

		require.NoError(t, c.AddRating(5))
		require.NoError(t, c.AddRating(4))
		require.NoError(t, c.AddRating(3))

		assert.InDelta(t, 4.0, c.Rating(), 1e-9)
		assert.Equal(t, 3, c.RatingCount())
	})

	t.Run("score out of range", func(t *testing.T) {
		c := newReadyCourier(t)

		require.Error(t, c.AddRating(0))
		require.Error(t, c.AddRating(6))
		assert.Zero(t, c.RatingCount())
	})
}

func TestRestoreCourier(t *testing.T) {
	orderID := kernel.NewUUID()

	c, err := courier.RestoreCourier(courier.RestoreCourierParams{
		ID:                  kernel.NewUUID(),
		Name:                "Bekzod",
		ChatID:              "chat-42",
		Online:              true,
		Verified:            true,
		Location:            testLocation(t),
		ActiveOrderID:       &orderID,
		Rating:              4.5,
		RatingCount:         10,
		CompletedDeliveries: 25,
	})

	require.NoError(t, err)
	assert.False(t, c.IsAvailable())
	assert.InDelta(t, 4.5, c.Rating(), 1e-9)
	assert.Equal(t, 25, c.CompletedDeliveries())
}

func TestCourier_ZeroValueIsRejected(t *testing.T) {
	var c courier.Courier

	require.Error(t, c.Validate())
	require.Error(t, (&c).Claim(kernel.NewUUID()))
}
