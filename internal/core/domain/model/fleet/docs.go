// Package fleet models the fleet service's records the engine needs: driver
// profiles, their availability and the vehicle assigned to each driver.
//
// These records are fetched, never owned. A driver session resolves its profile
// and vehicle once (DriverAssignment) and keeps only that.
package fleet
