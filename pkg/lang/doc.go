/*
Package lang implements the small expression/statement language a Tendril
session executes.

It provides the lexer, a recursive-descent parser with two entry productions
(single expression vs. statement sequence), the evaluator, and the Env type
that backs a session's live namespace. The two parse entry points are what let
the session decide between evaluate-and-print and execute without relying on
exception-driven control flow: ParseExpression fails with
domain.ErrNotExpression for anything that is not a single standalone
expression, and ParseProgram accepts the full statement grammar.
*/
package lang
