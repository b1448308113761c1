// Package kernel holds the value objects shared by the user and parcel
// aggregates: UUID identifiers, resolved GeoPoint coordinates and the
// Active/Deleted lifecycle that replaces nullable deletion timestamps in the
// domain model.
//
// Value objects are immutable and their zero values fail Validate, so a
// value that skipped its constructor is caught at the aggregate boundary.
package kernel
