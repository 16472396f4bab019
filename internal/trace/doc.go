// Package trace records what the rewrite pipeline is doing.
//
// Events are spans (begin/end pairs) and points, tagged with a Scope:
//
//   - ScopeDriver: one run of the CLI
//   - ScopePass: one rewrite pass over a tree
//   - ScopeFile: one source file
//   - ScopeNode: one replacement inside a tree
//
// The Level decides which scopes reach the output: phase shows driver and
// pass events, detail adds files, debug adds every node.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "pass", 0)
//	defer span.End("")
//
// Enable from the command line with
//
//	pyfix fix --trace=- --trace-level=detail src/
package trace
