package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.Ready,
		order.Assigned, order.PickedUp, order.InTransit,
		order.Delivered, order.Cancelled, order.Rejected,
	}
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:   {order.Confirmed, order.Rejected, order.Cancelled},
		order.Confirmed: {order.Preparing, order.Cancelled},
		order.Preparing: {order.Ready, order.Cancelled},
		order.Ready:     {order.Assigned, order.Cancelled},
		order.Assigned:  {order.PickedUp, order.Cancelled},
		order.PickedUp:  {order.InTransit, order.Cancelled},
		order.InTransit: {order.Delivered, order.Cancelled},
		order.Delivered: {},
		order.Cancelled: {},
		order.Rejected:  {},
	}

	isAllowed := func(from, to order.Status) bool {
		for _, s := range allowed[from] {
			if s == to {
				return true
			}
		}
		return false
	}

	// Exhaustively check every (from, to) pair against the table.
	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			t.Run(from.String()+"_to_"+to.String(), func(t *testing.T) {
				got, err := from.TransitionTo(to)

				if isAllowed(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, got)
				} else {
					require.Error(t, err)
					require.ErrorIs(t, err, errs.ErrConflict)
				}
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.Delivered: true,
		order.Cancelled: true,
		order.Rejected:  true,
	}

	for _, s := range allStatuses() {
		assert.Equal(t, terminal[s], s.IsTerminal(), "status %s", s)
	}
}

func TestStatus_Strings(t *testing.T) {
	t.Run("round trip through string", func(t *testing.T) {
		for _, s := range allStatuses() {
			parsed, err := order.StatusFromString(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("unknown names are rejected", func(t *testing.T) {
		_, err := order.StatusFromString("shipped")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("invalid value stringifies as unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", order.Status(99).String())
		assert.Equal(t, "unknown", order.Unknown.String())
	})
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		require.NoError(t, s.Validate(), "status %s", s)
	}

	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(99).Validate())
}

func TestStatus_TransitionFromInvalidStatus(t *testing.T) {
	_, err := order.Unknown.TransitionTo(order.Confirmed)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
