// Package modulemd reads modularity metadata (modules.yaml) found in RPM repositories.
//
// A modules.yaml file is a YAML stream of subdocuments. Two kinds are supported:
//
//	document: modulemd           (version 2) describes a module stream
//	document: modulemd-defaults  (version 1) describes the default stream and profiles of a module
//
// Documents are merged into an Index, an accumulator which lives as long as
// its owner wants it to: successive loads add to the same index. An Index is
// not safe for concurrent use; concurrent loaders should each own an index.
package modulemd
