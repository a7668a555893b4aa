package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_UnknownFallsBackToFree(t *testing.T) {
	require.Equal(t, PlanFree, Resolve(""))
	require.Equal(t, PlanFree, Resolve("premium"))
	require.Equal(t, PlanFree, Resolve("0"))
	require.Equal(t, PlanBasic, Resolve("299"))
	require.Equal(t, PlanSupreme, Resolve("1499"))
}

func TestCapabilities_Table(t *testing.T) {
	free := Capabilities(PlanFree)
	require.False(t, free.UpdateQuantity)
	require.Equal(t, 10, free.MaxCatalogSize)
	require.False(t, free.BulkUpload)
	require.False(t, free.LowStockAlert)

	basic := Capabilities(PlanBasic)
	require.True(t, basic.UpdateQuantity)
	require.Equal(t, 50, basic.MaxCatalogSize)
	require.True(t, basic.BulkUpload)
	require.False(t, basic.LowStockAlert)

	plus := Capabilities(PlanPlus)
	require.True(t, plus.LowStockAlert)
	require.Equal(t, 100, plus.MaxCatalogSize)

	supreme := Capabilities(PlanSupreme)
	require.True(t, supreme.Unlimited())
}

func TestAuthorize_RefusalCarriesCapability(t *testing.T) {
	err := Authorize(PlanFree, OpUpdateStockQuantity)
	require.Error(t, err)
	var refusal *RefusalError
	require.ErrorAs(t, err, &refusal)
	require.Equal(t, OpUpdateStockQuantity, refusal.Capability)
	require.Equal(t, PlanFree, refusal.Plan)
	require.NotEmpty(t, refusal.Reason)

	require.NoError(t, Authorize(PlanBasic, OpUpdateStockQuantity))
	require.Error(t, Authorize(PlanBasic, OpLowStockAlert))
	require.NoError(t, Authorize(PlanPlus, OpLowStockAlert))
}

func TestAuthorizeRegister_CeilingAndUpdateMode(t *testing.T) {
	require.NoError(t, AuthorizeRegister(PlanFree, 9, false))
	require.Error(t, AuthorizeRegister(PlanFree, 10, false))
	require.Error(t, AuthorizeRegister(PlanFree, 11, false))

	// Stock-update mode bypasses the ceiling.
	require.NoError(t, AuthorizeRegister(PlanFree, 10, true))

	require.NoError(t, AuthorizeRegister(PlanSupreme, 100000, false))
}
