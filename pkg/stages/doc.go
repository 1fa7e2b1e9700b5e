// Package stages runs declarative content through a chain of concurrent stages.
//
// Stages are connected by unbuffered channels. The pipeline closes the output
// channel of a stage when it returns: a stage only needs to consume its input
// until it is closed. The first error cancels the context of all stages.
package stages
