package di_test

import (
	"errors"
	"testing"

	"github.com/gocrud/autowire/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHealthyGraph(t *testing.T) {
	c := newContainer(t, NewInvoiceService, NewOuter)
	di.Declare[*Inner](c.Catalog())
	di.Declare[*SalesTaxService](c.Catalog())
	di.Declare[*EmailService](c.Catalog())
	di.Declare[*PaymentGatewayService](c.Catalog())
	di.DeclareAbstract[PaymentGateway](c.Catalog())
	di.Bind[PaymentGateway, *PaymentGatewayService](c)
	c.Set("dsn", di.Value("file::memory:"))

	assert.NoError(t, c.Validate())
	assert.NoError(t, c.Validate(di.KeyOf[*InvoiceService]()))
}

func TestValidateDoesNotInstantiate(t *testing.T) {
	c := di.NewContainer()
	calls := 0
	c.Set("expensive", di.Factory(func() any {
		calls++
		return calls
	}))
	require.NoError(t, c.Catalog().AddNamed("consumer", func(*Inner) *Outer {
		calls++
		return &Outer{}
	}))
	di.Declare[*Inner](c.Catalog())

	require.NoError(t, c.Validate())
	assert.Zero(t, calls)
}

func TestValidateReportsProblems(t *testing.T) {
	t.Run("missing dependency", func(t *testing.T) {
		c := newContainer(t, NewOuter)

		err := c.Validate(di.KeyOf[*Outer]())
		assert.True(t, di.IsNotFound(err))
	})

	t.Run("unbound abstract dependency", func(t *testing.T) {
		c := newContainer(t, NewInvoiceService)
		di.Declare[*SalesTaxService](c.Catalog())
		di.Declare[*EmailService](c.Catalog())
		di.DeclareAbstract[PaymentGateway](c.Catalog())

		err := c.Validate()
		assert.ErrorIs(t, err, di.ErrNotInstantiable)
	})

	t.Run("primitive parameter", func(t *testing.T) {
		c := newContainer(t, NewCounted)

		err := c.Validate()
		assert.ErrorIs(t, err, di.ErrUnresolvableParameter)
	})

	t.Run("cycle", func(t *testing.T) {
		c := newContainer(t, NewCycleA, NewCycleB)

		err := c.Validate()
		assert.ErrorIs(t, err, di.ErrCircularDependency)
	})

	t.Run("dangling alias", func(t *testing.T) {
		c := di.NewContainer()
		c.Set("gateway", di.Alias("stripe"))

		err := c.Validate("gateway")
		assert.True(t, di.IsNotFound(err))
	})
}

func TestValidateJoinsErrors(t *testing.T) {
	c := newContainer(t, NewCounted, NewUntyped, NewOuter)

	err := c.Validate()
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 3)

	var diErr *di.Error
	assert.True(t, errors.As(err, &diErr))
}
