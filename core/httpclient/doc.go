// Package httpclient builds the outbound HTTP client shared by API integrations.
//
// The client carries strict connection, TLS and response-header timeouts so
// that a hung remote never blocks a refresh cycle forever. Callers add
// request-level deadlines through context.
//
// # Usage
//
//	httpClient := httpclient.New(httpclient.Config{TimeoutSeconds: 20})
//	api := api.NewClient(httpClient, cfg.Library)
package httpclient
