/*
Package patch fixes worker loading in Emscripten generated WASM loader scripts.

🎯 Purpose:
- Guard `if(_scriptDir)` so a worker without the enclosing page scope does not
  throw a ReferenceError
- Construct pthread workers with `{ eval: true }` so they can boot from inline
  (blob) script content instead of a fetchable URL

🔄 Flow:
1. Read the whole input script
2. Apply the default rules in order, then any extra rules
3. Optionally fail when a rule neither matched nor was already applied (strict)
4. Write the result to the output path

The input file is never modified, and nothing is written unless every rule ran.
Running the patcher on its own output is a no-op.
*/
package patch
