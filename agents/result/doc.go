/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts answers from free-text model responses.

Models asked to emit a machine-readable payload usually wrap it in a fenced
code block and surround it with prose:

	Let me compute that.

	```text
	37593 * 67
	```

Block returns the body of the first block with the requested tag:

	expr, ok := result.Block(response, "text") // "37593 * 67", true

AfterMarker returns whatever follows the last occurrence of a label:

	answer, ok := result.AfterMarker("Answer: 42", "Answer:") // "42", true

All functions are pure and safe for concurrent use.
*/
package result
