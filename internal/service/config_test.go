package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

func TestConfigService_Initialize_OK(t *testing.T) {
	f := newFund(t)

	cfg, err := f.config.Initialize(as(admin), admin, token, pool)

	require.NoError(t, err)
	assert.Equal(t, admin, cfg.Admin)
	assert.Equal(t, token, cfg.CurrencyRef)
	assert.Equal(t, pool, cfg.PoolRef)
	assert.Equal(t, fixedNow, cfg.CreatedAt)
	assert.Zero(t, f.balance(t))
}

func TestConfigService_Initialize_Twice(t *testing.T) {
	f := newFund(t)
	_, err := f.config.Initialize(as(admin), admin, token, pool)
	require.NoError(t, err)

	_, err = f.config.Initialize(as(admin), admin, token, pool)

	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestConfigService_Initialize_SecondCallerStillAlreadyInitialized(t *testing.T) {
	f := newFund(t)
	_, err := f.config.Initialize(as(admin), admin, token, pool)
	require.NoError(t, err)

	_, err = f.config.Initialize(as(buyer), buyer, token, pool)

	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestConfigService_Initialize_CallerIsNotAdmin(t *testing.T) {
	f := newFund(t)

	_, err := f.config.Initialize(as(buyer), admin, token, pool)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.config.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestConfigService_Initialize_CurrencyRequired(t *testing.T) {
	f := newFund(t)

	_, err := f.config.Initialize(as(admin), admin, " ", pool)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConfigService_Get_NotInitialized(t *testing.T) {
	f := newFund(t)

	_, err := f.config.Get(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}
