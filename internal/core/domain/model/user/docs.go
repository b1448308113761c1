// Package user models the people the parcel service deals with: admins who
// run the operation, customers who send and receive parcels and couriers
// who carry them.
//
// Key business rules:
//   - Email is unique (enforced by storage) and kept lower-cased
//   - Couriers are created available and lose availability when assigned
//   - Roles may be changed only between ADMIN and CUSTOMER; courier accounts
//     keep their role for life
//   - Soft-deleted users are invisible to every active query
//
// Actor is the authenticated identity (id + role) passed explicitly into
// every use case.
package user
