// Package route53 implements reconcile.Store on top of the AWS Route53 API.
//
// Only TXT record sets are read and written. Values are listed with their quoted
// segments decoded (see core/txt) and written back in the same quoted form.
//
// # Errors
//
// Throttling, PriorRequestNotComplete, service unavailability and network failures
// are marked transient with retry.Transient so that callers retry them. Every other
// API error, InvalidChangeBatch in particular, is returned as is.
//
// # Usage
//
//	store, err := route53.NewStore(ctx, cfg.Route53)
//	zoneID, err := store.ResolveZone(ctx, "example.com.")
package route53
