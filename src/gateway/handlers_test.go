package gateway

import (
	"errors"
	"net/http"
	"testing"

	"github.com/chocolate-network/ledger/src/engine"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(engine.ErrNoProjectWithID))
	assert.Equal(t, http.StatusNotFound, statusFor(engine.ErrReviewNotFound))

	assert.Equal(t, http.StatusBadRequest, statusFor(engine.ErrReviewScoreOutOfRange))
	assert.Equal(t, http.StatusBadRequest, statusFor(engine.ErrOwnerReviewedProject))
	assert.Equal(t, http.StatusBadRequest, statusFor(engine.ErrNativeCollateral))
	assert.Equal(t, http.StatusBadRequest, statusFor(engine.ErrMetadataTooLong))

	assert.Equal(t, http.StatusPaymentRequired, statusFor(engine.ErrInsufficientBalance))

	assert.Equal(t, http.StatusConflict, statusFor(engine.ErrDuplicateReview))
	assert.Equal(t, http.StatusConflict, statusFor(engine.ErrAlreadyOwnsProject))
	assert.Equal(t, http.StatusConflict, statusFor(engine.ErrAcceptingNotProposed))
	assert.Equal(t, http.StatusConflict, statusFor(engine.ErrRewardInconsistent))
	assert.Equal(t, http.StatusConflict, statusFor(engine.ErrInconsistentCollateral))

	assert.Equal(t, http.StatusInsufficientStorage, statusFor(engine.ErrStorageOverflow))

	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
