package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("enum of string type", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		require.Equal(t, EnumString("bar"), bar)

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumString]("unregistered")
		require.Error(t, err)
	})

	t.Run("must to enum panics on unregistered value", func(t *testing.T) {
		type EnumFoo string

		New(EnumFoo("foo"))
		require.NotPanics(t, func() { MustToEnum[EnumFoo]("foo") })
		require.Panics(t, func() { MustToEnum[EnumFoo]("bar") })
	})
}
