// Package services provides domain services for decisions that span more than
// one aggregate or that no single aggregate owns.
//
// The package includes:
//   - AccessPolicy: the pure role and ownership check run before any mutation
//   - CourierAssigner: release-then-assign across a parcel and its couriers
package services
