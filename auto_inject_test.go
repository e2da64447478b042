package inject

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoInject(t *testing.T) {
	c := NewClient()
	Set(c, &testConfig{debug: true})

	wrapped := c.AutoInject(func(cfg *testConfig, n int) string {
		return fmt.Sprintf("%t-%d", cfg.debug, n)
	})

	result, err := wrapped(5)

	assert.NoError(t, err)
	assert.Equal(t, "true-5", result)
}

func TestAutoInject_ResolutionError(t *testing.T) {
	c := NewClient()

	wrapped := c.AutoInject(func(cfg *testConfig) bool { return cfg.debug })

	_, err := wrapped()

	var missing *MissingDependencyError
	assert.ErrorAs(t, err, &missing)
}

func TestAutoInjectAsync(t *testing.T) {
	c := NewClient()
	Provide[*testToken](c, func(ctx context.Context) *testToken {
		return &testToken{value: "issued"}
	})

	wrapped := c.AutoInjectAsync(func(tok *testToken) string {
		return tok.value
	})

	result, err := wrapped(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "issued", result)
}

type repoLookup func(name string) (*testRepo, error)

func TestAutoInjectAs_Sync(t *testing.T) {
	c := NewClient()
	Set(c, &testDatabase{dsn: "dsn"})

	lookup := AutoInjectAs[repoLookup](c, func(db *testDatabase, name string) (*testRepo, error) {
		return &testRepo{db: &testDatabase{dsn: db.dsn + "/" + name}}, nil
	})

	repo, err := lookup("users")

	assert.NoError(t, err)
	assert.Equal(t, "dsn/users", repo.db.dsn)
}

type tokenIssuer func(ctx context.Context, subject string) (*testToken, error)

func TestAutoInjectAs_Async(t *testing.T) {
	c := NewClient()
	Set(c, &testConfig{debug: true})

	issue := AutoInjectAs[tokenIssuer](c, func(ctx context.Context, cfg *testConfig, subject string) (*testToken, error) {
		return &testToken{value: fmt.Sprintf("%s:%t", subject, cfg.debug)}, nil
	})

	tok, err := issue(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, "alice:true", tok.value)
}

func TestAutoInjectAs_ResolutionErrorThroughErrorResult(t *testing.T) {
	c := NewClient()

	lookup := AutoInjectAs[repoLookup](c, func(db *testDatabase, name string) (*testRepo, error) {
		return &testRepo{db: db}, nil
	})

	repo, err := lookup("users")

	assert.Nil(t, repo)
	var missing *MissingDependencyError
	assert.ErrorAs(t, err, &missing)
}

func TestAutoInjectAs_PanicsOnNonFunctionTarget(t *testing.T) {
	c := NewClient()

	assert.Panics(t, func() {
		AutoInjectAs[int](c, func() {})
	})
}

func TestAutoInjectAs_UserErrorPropagates(t *testing.T) {
	expected := fmt.Errorf("lookup failed")
	c := NewClient()
	Set(c, &testDatabase{dsn: "dsn"})

	lookup := AutoInjectAs[repoLookup](c, func(db *testDatabase, name string) (*testRepo, error) {
		return nil, expected
	})

	_, err := lookup("users")

	assert.Same(t, expected, err)
}
