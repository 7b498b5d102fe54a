// Package retry provides the retry policy shared by the store calls and the SSH key
// lookup client.
//
// Failures are retried only when they are explicitly classified as transient with
// Transient. Any other error aborts immediately. When every attempt fails the last
// error is returned wrapped, never swallowed.
//
// # Usage
//
//	policy := retry.Policy{Attempts: 5, Delay: 2 * time.Second}
//	err := policy.Do(ctx, func() error {
//	    if err := call(); err != nil {
//	        return retry.Transient(err)
//	    }
//	    return nil
//	})
package retry
