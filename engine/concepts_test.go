package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andino/payroll-engine/engine"
)

func TestDefaultCatalog_StatutoryFlags(t *testing.T) {
	c := engine.DefaultCatalog()

	base, ok := c.Lookup(engine.ConceptBasePay)
	require.True(t, ok)
	assert.Equal(t, engine.KindEarning, base.Kind)
	assert.True(t, base.Insurable)
	assert.True(t, base.Taxable)

	// Statutory bonuses carry neither social insurance nor income tax.
	th, ok := c.Lookup(engine.ConceptThirteenth)
	require.True(t, ok)
	assert.False(t, th.Insurable)
	assert.False(t, th.Taxable)

	// Vacation cash-out is insurable but not taxable.
	vac, ok := c.Lookup(engine.ConceptVacationPay)
	require.True(t, ok)
	assert.True(t, vac.Insurable)
	assert.False(t, vac.Taxable)

	loan, ok := c.Lookup(engine.ConceptLoan)
	require.True(t, ok)
	assert.Equal(t, engine.KindDeduction, loan.Kind)
}

func TestResolve_UnknownCode_Lenient(t *testing.T) {
	c := engine.DefaultCatalog()

	concept, warning, err := c.Resolve("MEAL_ALLOWANCE")
	require.NoError(t, err)
	assert.NotEmpty(t, warning, "lenient fallback records a warning")
	assert.Equal(t, engine.KindEarning, concept.Kind)
	assert.True(t, concept.Insurable)
	assert.True(t, concept.Taxable)
}

func TestResolve_UnknownCode_Strict(t *testing.T) {
	c := engine.DefaultCatalog().Clone()
	c.Strict = true

	_, _, err := c.Resolve("MEAL_ALLOWANCE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInconsistentConcept))

	var conceptErr *engine.ConceptError
	require.True(t, errors.As(err, &conceptErr))
	assert.Equal(t, "MEAL_ALLOWANCE", conceptErr.Code)
}

func TestRegister_CustomConcept(t *testing.T) {
	c := engine.DefaultCatalog().Clone()

	err := c.Register(engine.Concept{
		Code: "TRANSPORT", Name: "Transport allowance",
		Kind: engine.KindEarning, Insurable: false, Taxable: true,
	})
	require.NoError(t, err)

	concept, warning, err := c.Resolve("TRANSPORT")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.False(t, concept.Insurable)
	assert.True(t, concept.Taxable)

	// Registering on a clone leaves the original catalog untouched.
	_, ok := engine.DefaultCatalog().Lookup("TRANSPORT")
	assert.False(t, ok)
}

func TestRegister_Rejections(t *testing.T) {
	c := engine.NewCatalog(false)
	assert.Error(t, c.Register(engine.Concept{Code: "", Kind: engine.KindEarning}))
	assert.Error(t, c.Register(engine.Concept{Code: "X", Kind: "neither"}))
}
