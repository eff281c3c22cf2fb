package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
)

func TestNewCreateOrderCommand(t *testing.T) {
	dropoff := mustGeoPoint(t, 41.311, 69.279)
	lines := []commands.OrderLine{{ProductID: kernel.NewUUID(), Quantity: 2}}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		lines, dropoff, "Amir Temur 42", "cash", "call on arrival", kernel.Money(5000),
	)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, lines, cmd.Lines())
	assert.Equal(t, "Amir Temur 42", cmd.Address())
	assert.Equal(t, "cash", cmd.PaymentMethod())
	assert.Equal(t, "call on arrival", cmd.Notes())
	assert.Equal(t, kernel.Money(5000), cmd.Discount())
}

func TestNewCreateOrderCommand_Invalid(t *testing.T) {
	dropoff := mustGeoPoint(t, 41.311, 69.279)
	validLines := []commands.OrderLine{{ProductID: kernel.NewUUID(), Quantity: 1}}

	tests := []struct {
		name    string
		lines   []commands.OrderLine
		address string
		payment string
		wantErr error
	}{
		{
			name:    "no lines",
			lines:   nil,
			address: "Amir Temur 42",
			payment: "cash",
			wantErr: commands.ErrLinesAreRequired,
		},
		{
			name:    "zero quantity",
			lines:   []commands.OrderLine{{ProductID: kernel.NewUUID(), Quantity: 0}},
			address: "Amir Temur 42",
			payment: "cash",
			wantErr: commands.ErrLineQuantityIsInvalid,
		},
		{
			name:    "empty address",
			lines:   validLines,
			address: "",
			payment: "cash",
			wantErr: commands.ErrAddressIsRequired,
		},
		{
			name:    "empty payment method",
			lines:   validLines,
			address: "Amir Temur 42",
			payment: "",
			wantErr: commands.ErrPaymentMethodIsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewCreateOrderCommand(
				kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
				tt.lines, dropoff, tt.address, tt.payment, "", kernel.Money(0),
			)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateOrderCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.CreateOrderCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
