// Copyright © 2018 One Concern

// Package model describes the base objects manipulated by rpmsync.
//
// The object model for rpmsync is composed of:
//
//	Content:
//	  A unit of repository content: a package, an advisory, a module stream,
//	  module defaults or a repository metadata file (e.g. a productid certificate).
//
//	Content artifacts:
//	  The relative paths a content unit occupies in the repository tree.
//
//	Remote artifacts:
//	  Records asserting that a remote can supply a content artifact. At most one
//	  per (content artifact, remote) pair.
//
//	Declarative content:
//	  Content and the artifacts it declares, as produced by metadata parsing
//	  during a sync, before anything is persisted.
//
//	Advisories:
//	  Update records with their package collections and references, keyed on
//	  the digest of their content.
//
//	Modules:
//	  Module streams (NSVCA identity), their defaults and the packages they ship.
package model
