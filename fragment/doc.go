// Package fragment composes text queries from named fragments.
//
// A [Store] holds three kinds of [Fragment]:
//
//   - [List]: delimited raw text, optionally reshaped by a script
//   - [Generator]: a value computed by a script with no inputs
//   - [Query]: text embedding references to other fragments
//
// A reference is written #{name}. [Resolve] substitutes every reference
// transitively until each query is flat text:
//
//	lorem : "lorem ipsum"
//	q     : "dolor #{lorem} #{lorem}"
//
// resolves q to "dolor lorem ipsum lorem ipsum".
//
// Scripts are run by a [Runner] supplied with [WithRunner]. A script receives
// its input under the "value" binding and must bind its string result to
// "value". Each script runs at most once per fragment.
//
// # Errors
//
// Resolution stops at the first failure. Errors are [*Error] values that
// match their sentinel under [errors.Is] and carry the offending name in a
// "name" attribute:
//
//   - [ErrCyclicReference]: a query reaches itself (the "chain" attribute
//     spells the loop, e.g. "a -> b -> a")
//   - [ErrNameNotFound]: a reference names no fragment
//   - [ErrScriptFailed], [ErrScriptOutputMissing]: a list or generator
//     script failed or bound no value
package fragment
