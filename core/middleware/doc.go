// Package middleware groups the Fiber middleware of the service.
//
//   - auth: API key check for protected routes.
//   - rayid: a request id on every request, stored in the context and
//     echoed in the X-Ray-ID response header.
package middleware
