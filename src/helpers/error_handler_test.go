package helpers

import (
	"errors"
	"fmt"
	"testing"

	"crypto-analyst/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", NewDataUnavailable(cause, "coinmarketcap unreachable"))

	assert.True(t, IsDataUnavailable(err))
	assert.False(t, IsReportIncomplete(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindDataUnavailable, Kind(err))
	assert.Equal(t, "refresh: coinmarketcap unreachable: connection refused", err.Error())
}

func TestReportIncompleteCarriesSections(t *testing.T) {
	err := NewReportIncomplete([]string{"executive_report"}, nil, "narrative missing")

	var target *ReportIncompleteError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, []string{"executive_report"}, target.Sections)
	assert.Equal(t, KindReportIncomplete, Kind(err))
	assert.Equal(t, "narrative missing", err.Error())
}

func TestKindFallbacks(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, KindInternal, Kind(errors.New("plain")))
	assert.Equal(t, KindValidation, Kind(NewValidation("top_n %d out of range", 2)))
	assert.Equal(t, KindConfiguration, Kind(NewConfiguration("missing key")))
}

func TestErrorHandlerCountsByKind(t *testing.T) {
	h := NewErrorHandler(logger.NewNopLogger("test"))
	h.Handle(nil, "noop")
	h.Handle(NewDataUnavailable(nil, "down"), "fetch")
	h.Handle(NewDataUnavailable(nil, "down"), "fetch")
	h.Handle(errors.New("x"), "other")

	assert.Equal(t, 2, h.ErrorCount[KindDataUnavailable])
	assert.Equal(t, 1, h.ErrorCount[KindInternal])
	assert.Equal(t, map[string]int{KindDataUnavailable: 2, KindInternal: 1}, h.Counts())
}
