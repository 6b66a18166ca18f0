package authenticator_test

import (
	"testing"
	"time"

	"github.com/rocketman2178/healthrocket-backend/config"
	"github.com/rocketman2178/healthrocket-backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[string](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})

	token, err := engine.Generate("user1", "abc")
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "abc", obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[string](config.TokenConfigs{
		Secret:     "secret",
		Expiration: -time.Minute,
	})

	token, err := engine.Generate("user1", "abc")
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
