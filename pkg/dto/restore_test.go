package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3migrate/pkg/dto"
)

func TestParseRestoreToken_EmptyMeansNotArchived(t *testing.T) {
	assert.Nil(t, dto.ParseRestoreToken(""))
}

func TestParseRestoreToken_OngoingTrue(t *testing.T) {
	state := dto.ParseRestoreToken(`ongoing-request="true"`)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreInProgress, state.Status)
	assert.Nil(t, state.Expiry)
}

func TestParseRestoreToken_OngoingTakesPrecedenceOverExpiry(t *testing.T) {
	// a header can carry a stale expiry next to an ongoing request
	raw := `ongoing-request="true", expiry-date="Fri, 21 Dec 2012 00:00:00 GMT"`
	state := dto.ParseRestoreToken(raw)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreInProgress, state.Status)
	assert.Nil(t, state.Expiry)
}

func TestParseRestoreToken_ExpiryDate(t *testing.T) {
	raw := `ongoing-request="false", expiry-date="Fri, 21 Dec 2012 00:00:00 GMT"`
	state := dto.ParseRestoreToken(raw)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreInProgress, state.Status)
	require.NotNil(t, state.Expiry)
	expected := time.Date(2012, time.December, 21, 0, 0, 0, 0, time.UTC)
	assert.True(t, state.Expiry.Equal(expected), "expiry should be normalized to UTC")
}

func TestParseRestoreToken_UnparseableExpiryFallsBackToAvailable(t *testing.T) {
	state := dto.ParseRestoreToken(`expiry-date="not a date"`)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreAvailable, state.Status)
	assert.Nil(t, state.Expiry)
}

func TestParseRestoreToken_OngoingFalseWithoutExpiry(t *testing.T) {
	state := dto.ParseRestoreToken(`ongoing-request="false"`)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreAvailable, state.Status)
}

func TestParseRestoreToken_UnrecognizedMeansExpired(t *testing.T) {
	state := dto.ParseRestoreToken(`something else entirely`)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreExpired, state.Status)
}

func TestParseRestoreToken_CaseInsensitiveTokens(t *testing.T) {
	state := dto.ParseRestoreToken(`ONGOING-REQUEST="TRUE"`)
	require.NotNil(t, state)
	assert.Equal(t, dto.RestoreInProgress, state.Status)
}

func TestDescribe(t *testing.T) {
	var nilState *dto.RestoreState
	assert.Equal(t, "n/a", nilState.Describe())
	assert.Equal(t, "in-progress", (&dto.RestoreState{Status: dto.RestoreInProgress}).Describe())
	assert.Equal(t, "expired", (&dto.RestoreState{Status: dto.RestoreExpired}).Describe())
	assert.Equal(t, "available", (&dto.RestoreState{Status: dto.RestoreAvailable}).Describe())
}
