package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/treasury"
)

func TestStatusFor(t *testing.T) {
	t.Run("Validation Errors Map To 400", func(t *testing.T) {
		for _, err := range []error{
			engine.ErrZeroPayment,
			engine.ErrUnsupportedAsset,
			engine.ErrBelowMinimum,
			engine.ErrAboveMaximum,
			engine.ErrBelowMinStake,
			engine.ErrInvalidIndex,
			engine.ErrUnknownPool,
			engine.ErrUnknownPhase,
			engine.ErrRateTooHigh,
		} {
			assert.Equal(t, http.StatusBadRequest, statusFor(err), "%v", err)
		}
	})

	t.Run("State Conflicts Map To 409", func(t *testing.T) {
		for _, err := range []error{
			engine.ErrSaleEnded,
			engine.ErrPhaseExhausted,
			engine.ErrSupplyExhausted,
			engine.ErrStillLocked,
			engine.ErrNotLocked,
			engine.ErrInactiveStake,
			engine.ErrNoRewards,
			engine.ErrBonusNotReady,
			engine.ErrPaused,
			engine.ErrReentrantCall,
			treasury.ErrInsufficientBalance,
		} {
			assert.Equal(t, http.StatusConflict, statusFor(err), "%v", err)
		}
	})

	t.Run("Owner Check Maps To 403", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, statusFor(engine.ErrNotOwner))
	})

	t.Run("Unknown Errors Map To 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	})
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1500000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000000", v.String())

	_, err = parseAmount("12.5")
	assert.Error(t, err)

	_, err = parseAmount("-10")
	assert.Error(t, err)

	_, err = parseAmount("")
	assert.Error(t, err)

	_, err = parseAmount("abc")
	assert.Error(t, err)
}
