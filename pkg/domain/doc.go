/*
Package domain contains the core types shared across the Tendril engine.

It defines the sentinel errors used for control flow (cooperative termination,
expression/statement disambiguation), the typed errors surfaced by the process
runner, and the structured result of an external command invocation. This
package is kept pure and free of I/O so ports and adapters can both import it,
following Hexagonal Architecture principles.
*/
package domain
