package warnings

import "strings"

// nodeBuiltins are the module ids provided by the Node.js runtime rather
// than the project's dependency tree.
var nodeBuiltins = map[string]struct{}{
	"assert": {}, "async_hooks": {}, "buffer": {}, "child_process": {},
	"cluster": {}, "console": {}, "constants": {}, "crypto": {},
	"dgram": {}, "diagnostics_channel": {}, "dns": {}, "domain": {},
	"events": {}, "fs": {}, "http": {}, "http2": {}, "https": {},
	"inspector": {}, "module": {}, "net": {}, "os": {}, "path": {},
	"perf_hooks": {}, "process": {}, "punycode": {}, "querystring": {},
	"readline": {}, "repl": {}, "stream": {}, "string_decoder": {},
	"timers": {}, "tls": {}, "trace_events": {}, "tty": {}, "url": {},
	"util": {}, "v8": {}, "vm": {}, "wasi": {}, "worker_threads": {},
	"zlib": {},
}

// IsNodeBuiltin reports whether the module id names a platform built-in,
// with or without the node: scheme, including subpath imports like
// fs/promises.
func IsNodeBuiltin(id string) bool {
	id = strings.TrimPrefix(id, "node:")
	if root, _, ok := strings.Cut(id, "/"); ok {
		id = root
	}
	_, ok := nodeBuiltins[id]
	return ok
}
