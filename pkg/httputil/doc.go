// Package httputil holds the retry policy shared by the registry clients.
//
// Clients wrap transient failures (connection errors, 5xx responses) with
// [Retryable] and run each request through [Retry]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Any other error stops the loop immediately, so a 404 or a malformed
// response is reported on the first attempt.
package httputil
