package inject

import (
	"testing"
)

func Benchmark_CallDirect(b *testing.B) {
	f := func(cfg *testConfig) bool { return cfg.debug }
	cfg := &testConfig{debug: true}
	for i := 0; i < b.N; i++ {
		f(cfg)
	}
}

func Benchmark_CallWithDI_TypeDependency(b *testing.B) {
	c := NewClient()
	Set(c, &testConfig{debug: true})
	f := func(cfg *testConfig) bool { return cfg.debug }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.CallWithDI(f)
	}
}

func Benchmark_CallWithDI_CallbackCached(b *testing.B) {
	c := NewClient()
	Provide[*testDatabase](c, func() *testDatabase {
		return &testDatabase{dsn: "dsn"}
	})
	f := func(db *testDatabase) string { return db.dsn }
	ictx := NewCachingContext(c)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ictx.CallWithDI(f)
	}
}

func Benchmark_CallWithDI_CallbackUncached(b *testing.B) {
	c := NewClient()
	Provide[*testDatabase](c, func() *testDatabase {
		return &testDatabase{dsn: "dsn"}
	})
	f := func(db *testDatabase) string { return db.dsn }
	ictx := NewBasicContext(c)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ictx.CallWithDI(f)
	}
}

func Benchmark_AutoInjectAs(b *testing.B) {
	c := NewClient()
	Set(c, &testDatabase{dsn: "dsn"})
	lookup := AutoInjectAs[repoLookup](c, func(db *testDatabase, name string) (*testRepo, error) {
		return &testRepo{db: db}, nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = lookup("users")
	}
}
