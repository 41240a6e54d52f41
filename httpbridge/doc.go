// Package httpbridge exposes an rpcbridge Proxy over HTTP.
//
// POST forwards the JSON-RPC request in the body and answers with the
// server's response. GET reports health, OPTIONS answers CORS preflight,
// and every other method gets 405. All responses carry permissive CORS
// headers.
//
//	proxy := rpcbridge.New(rpcbridge.WithLogger(logger))
//	handler := httpbridge.New(proxy,
//	    httpbridge.WithLogger(logger),
//	    httpbridge.WithTokenSource(func() string { return os.Getenv("MONDAY_TOKEN") }),
//	)
//	http.ListenAndServe(":8080", handler)
package httpbridge
