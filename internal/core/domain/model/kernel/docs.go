// Package kernel provides the value objects shared by the logistics domain model.
//
// The package includes:
//   - BoxCode: the printed identifier of a transport box (B + 3 digits)
//   - Amount: a strictly positive decimal quantity of a product
//
// Both types are immutable and can only be obtained through their constructors;
// the zero value fails Validate.
package kernel
