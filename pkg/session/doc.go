/*
Package session implements the interactive execution session at the heart of
Tendril.

A Session owns a persistent, mutable environment and an optional replayable
transcript. Fragments of source text are dispatched through the
evaluate-or-execute decider (Interpret) under failure isolation: an
unexpected failure prints a truncated diagnostic and the session keeps
accepting input, while a cooperative termination request (the exit builtin)
is always forwarded to the injected termination handler.

Sessions are not safe for concurrent use; callers must serialize Run
invocations. Each Session exclusively owns its environment and transcript.
*/
package session
