/*
Package ports defines the driven-side interfaces of the Tendril engine.

Following Hexagonal Architecture, the session core depends only on these
contracts; concrete implementations live under pkg/adapters. The package also
ships a reusable contract test (RunHistoryStoreContract) so every adapter can
prove it satisfies the same behavior.
*/
package ports
