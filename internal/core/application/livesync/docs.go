// Package livesync keeps a viewer's order cache consistent with the order service.
//
// A Dashboard owns one OrderCache and one push channel subscription. Every cache
// mutation (the initial fetch, push event upserts, re-fetches) runs on the
// dashboard's single task goroutine, so mutations never race. Readers on other
// goroutines see immutable, versioned snapshots.
//
// The Reconciler covers dropped push events: after an action, the expected status
// of an order is registered, and if no matching push event arrives within the
// reconcile delay the dashboard re-fetches once.
package livesync
