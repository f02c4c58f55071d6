/*
Package tendril is an interactive execution session engine.

It accepts successive fragments of source text, decides whether each is an
expression to evaluate-and-print or a statement sequence to execute, runs it
against a persistent mutable environment, and isolates failures so the
session survives and keeps accepting input. A companion process runner
executes external commands with either live pass-through or captured output.

# Concept

A Session owns the live namespace (Environment) and an optional replayable
Transcript. The surrounding tool feeds it one fragment at a time; where that
fragment comes from (an interactive prompt, a pipe, a file) is the host's
business. Termination always routes through an injected handler, so
embedding contexts control shutdown.

# Usage

	package main

	import (
		"github.com/aretw0/tendril"
		"github.com/aretw0/tendril/pkg/session"
	)

	func main() {
		sess := tendril.New(session.WithStore())

		// Echoes "4" on stdout.
		sess.Run("2 + 2", session.RunOptions{Record: true})

		// Binds silently; the session environment now holds x.
		sess.Run("x = 2 + 2", session.RunOptions{Record: true})
	}

The building blocks live in the sub-packages: pkg/session (the engine),
pkg/lang (the fragment language and environment), pkg/adapters/process (the
command runner) and pkg/adapters/{memory,file,redis} (transcript
persistence).
*/
package tendril
