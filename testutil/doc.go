// Package testutil provides fakes and helpers for tests that exercise the
// service lifecycle.
//
//	rec := &testutil.Recorder{}
//	a := testutil.NewService("a", rec)
//	b := testutil.NewService("b", rec).Failing(errors.New("boom"))
//	// install a, then b ...
//	rec.Calls() // ["install:a", "install:b"]
//
// Test conventions: library packages (component, di, config, logger, errors,
// validation, util, version, security, route, server, database,
// observability) test with the standard testing package alone. Tests that
// drive the assembled application over real sockets or driver mocks
// (bootstrap, article, mongodb, cmd/articles) use testify's
// require and assert.
package testutil
