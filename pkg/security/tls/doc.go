/*
Package tls builds the HTTPS configuration for the trigon service.

NewServerConfig loads the certificate and key named in server.tls,
validates the leaf certificate and returns a crypto/tls configuration
whose certificate is served through a CertificateReloader. When
cert_reload_interval is positive the reloader polls the files and swaps
in a renewed certificate without restarting the server.

	tlsCfg, reloader, err := securitytls.NewServerConfig(&cfg.Server.TLS, logger)
	if err != nil {
		return err
	}
	go reloader.Run(ctx)

A certificate that is expired or not yet valid is rejected at load and at
reload; a failed reload keeps serving the previous certificate.
*/
package tls
