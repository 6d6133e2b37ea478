// Package services contains the core use-cases of the connect SDK: the
// attempt registry that correlates in-flight OAuth flows, the connector
// registry, and the flow service that drives authorization, callback
// handling and selection delivery.
package services
