// Package parcel provides the Parcel aggregate and its delivery status
// state machine.
//
// The package includes:
//   - Parcel: the aggregate root holding sender, receiver, resolved
//     addresses, weight category, courier assignment and status
//   - Status: the state machine enforcing legal transitions and who may take them
//   - WeightCategory: the LIGHT / MEDIUM / HEAVY enumeration
//
// Key business rules:
//   - Parcels start PENDING and change status only through TransitionStatus
//   - DELIVERED is terminal; CANCELLED may be reactivated to PENDING by an admin
//   - A courier may move only the parcels assigned to them
//   - Addresses always carry coordinates; changing the text requires a new point
//   - Assignment never changes the status
package parcel
