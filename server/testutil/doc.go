// Package testutil provides an HTTP server for tests, backed by
// httptest.Server and wired with the same error envelope as production.
//
//	srv := testutil.NewComponent()
//	srv.Server().Group("/hello").GET("", handler)
//	if err := srv.Install(ctx); err != nil { ... }
//	defer srv.Stop(ctx)
//	resp, _ := http.Get(srv.BaseURL() + "/hello")
package testutil
