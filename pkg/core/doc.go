// Package core implements the rpmsync engine.
//
// It resolves the packages of module streams, imports module documents, and
// reconciles declared artifacts with the remote artifacts already known to the
// store. The store is only accessed through the narrow interfaces declared
// here, so that the reconciliation logic can be tested without a database.
package core
