package failure

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
)

func TestWrap_KeepsReasonAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(ErrOTCRequestFailed, cause)

	assert.ErrorIs(t, err, ErrOTCRequestFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrOTCInvalid)
	assert.Equal(t, ReasonOTCRequestFailed, goerror.ReasonOf(err))

	var gerr *goerror.Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusBadGateway, gerr.StatusCode())
}

func TestWrap_NonGoerrorTemplate(t *testing.T) {
	plain := errors.New("plain")
	assert.Same(t, plain, Wrap(plain, errors.New("x")))
}

func TestStatusCodes(t *testing.T) {
	tests := map[error]int{
		ErrUnauthorized:            http.StatusUnauthorized,
		ErrNoMatch:                 http.StatusNotFound,
		ErrOTCInvalid:              http.StatusUnprocessableEntity,
		ErrOTCExpiredOrInvalidated: http.StatusConflict,
		ErrEmptyOrder:              http.StatusUnprocessableEntity,
		ErrReceiptUnavailable:      http.StatusBadGateway,
	}

	for err, want := range tests {
		var gerr *goerror.Error
		if assert.ErrorAs(t, err, &gerr) {
			assert.Equal(t, want, gerr.StatusCode(), gerr.Reason())
		}
	}
}
