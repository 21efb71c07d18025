// Package repair manages repair records for cars in the fleet.
//
// A repair belongs to exactly one car and carries a description, a cost
// in whole cents and a service date. Rows join in the car's display
// label so listings read naturally without extra lookups; the registry
// subscribes to car changes and reloads when one arrives.
//
// The package also answers report queries: Search filters the repair
// history by owner, car, date range and cost range, newest first.
package repair
