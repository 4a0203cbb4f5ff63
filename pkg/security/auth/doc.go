/*
Package auth provides API key authentication for the classification API.

Keys come from server.auth in the configuration. The middleware reads the
key from the configured header, strips the optional scheme prefix and
rejects the request with 401 when the key is missing, unknown or disabled.
The name of the accepted key is stored in the request context.

	validator := auth.NewKeyValidator(cfg.Server.Auth.Keys)
	mw := auth.Middleware(validator, auth.Source{Header: "Authorization", Scheme: "Bearer"}, logger)
	mux.Handle("/v1/classify", mw(classifyHandler))

	func handler(w http.ResponseWriter, r *http.Request) {
		if name, ok := auth.KeyName(r.Context()); ok {
			...
		}
	}

Keys are compared in constant time.
*/
package auth
