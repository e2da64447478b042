package inject

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestClient_RegistrationChaining(t *testing.T) {
	c := NewClient()

	returned := c.
		SetTypeDependency(Key[*testConfig](), &testConfig{debug: true}).
		SetTypeDependency(Key[*testDatabase](), &testDatabase{dsn: "dsn"})

	assert.Same(t, c, returned)
}

func TestClient_LastWriteWins(t *testing.T) {
	c := NewClient()
	Set(c, &testConfig{debug: false})
	Set(c, &testConfig{debug: true})

	value, ok := c.GetTypeDependency(Key[*testConfig]())

	assert.True(t, ok)
	assert.True(t, value.(*testConfig).debug)
}

func TestClient_RemoveTypeDependency(t *testing.T) {
	c := NewClient()
	Set(c, &testConfig{debug: true})
	c.RemoveTypeDependency(Key[*testConfig]())

	_, ok := c.GetTypeDependency(Key[*testConfig]())

	assert.False(t, ok)
}

func TestClient_GetCallbackOverride(t *testing.T) {
	c := NewClient()
	original := NewCallback(func() *testConfig { return nil })
	override := NewCallback(func() *testConfig { return nil })

	assert.Nil(t, c.GetCallbackOverride(original))

	c.SetCallbackOverride(original, override)
	assert.Same(t, override, c.GetCallbackOverride(original))
}

func TestProvide_PanicsOnNonFunction(t *testing.T) {
	c := NewClient()

	assert.Panics(t, func() {
		Provide[*testConfig](c, 42)
	})
}

func TestProvide_PanicsOnWrongResultType(t *testing.T) {
	c := NewClient()

	assert.Panics(t, func() {
		Provide[*testConfig](c, func() *testDatabase { return nil })
	})
}

func TestNewCallback_DistinctHandlesForSameFunction(t *testing.T) {
	fn := func() *testConfig { return &testConfig{} }
	a := NewCallback(fn)
	b := NewCallback(fn)

	assert.NotEqual(t, a.ID(), b.ID())

	c := NewClient()
	ictx := NewCachingContext(c)
	c.SetCallbackDependency(Key[*testConfig](), a)

	_, err := ictx.CallWithDI(func(cfg *testConfig) *testConfig { return cfg })
	assert.NoError(t, err)

	// Caching keys on handle identity, not on the wrapped function.
	_, cached := ictx.CachedResult(a)
	assert.True(t, cached)
	_, cached = ictx.CachedResult(b)
	assert.False(t, cached)
}

func TestClient_Status(t *testing.T) {
	c := NewClient()
	Set(c, &testConfig{debug: true})
	cb := Provide[*testDatabase](c, func(cfg *testConfig) *testDatabase {
		return &testDatabase{}
	})

	status := c.Status()

	assert.Contains(t, status, "*inject.testConfig - direct value set")
	assert.Contains(t, status, "*inject.testDatabase - callback: (*inject.testConfig) *inject.testDatabase")
	assert.Contains(t, status, cb.ID())
}

func TestClient_StatusMarksOverrides(t *testing.T) {
	c := NewClient()
	original := Provide[*testDatabase](c, func() *testDatabase { return nil })
	c.SetCallbackOverride(original, NewCallback(func() *testDatabase { return nil }))

	assert.Contains(t, c.Status(), "(overridden)")
}

func TestWithLogger(t *testing.T) {
	c := NewClient(WithLogger(zerolog.Nop()))
	Provide[*testConfig](c, func() *testConfig { return &testConfig{debug: true} })

	result, err := c.CallWithDI(func(cfg *testConfig) bool { return cfg.debug })

	assert.NoError(t, err)
	assert.Equal(t, true, result)
}
