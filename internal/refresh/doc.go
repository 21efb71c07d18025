// Package refresh provides the cross-surface notification fan-out used
// to keep derived lookup caches in sync with the store.
//
// When owner or car data changes, every dependent that holds a derived
// selection cache (the car registry denormalizes owner names, the repair
// registry denormalizes car labels, the API pushes refresh events to
// presentation surfaces) must reload before the next interaction. The
// Broadcaster decouples mutation from notification: mutators publish a
// topic, subscribers register a refresh hook, and fan-out is synchronous
// so a subscriber is never offered stale selections after Publish returns.
package refresh
