// Package runner drives one chat turn against the persistent memory.
//
// Flow:
//
//	record interaction -> build system prompt -> model call
//	  ok:   extract directives -> apply -> persist -> clean reply
//	  fail: error reply -> persist
//
// Turns are serialized; the memory document has a single writer.
package runner
