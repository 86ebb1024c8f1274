// Package apiclient is the single outbound HTTP path for the portal.
//
// Every request carries the current credential in the Authorization header,
// read fresh from the injected CredentialProvider. Successful responses are
// reduced to their body (Payload); failures come back as *ServerError when the
// server answered with a non-2xx status, or *TransportError when no response
// was received at all.
//
// The client performs no retries and no caching. Callers cancel through the
// context they pass in.
package apiclient
