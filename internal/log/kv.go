package log

import "sort"

// KV holds key-value pairs to be attached to a log entry.
type KV map[string]any

// kvToArgs flattens the given KV maps into the alternating key, value
// slice slog expects. Keys are emitted in sorted order so log output is
// deterministic.
func kvToArgs(keyVals ...KV) []any {
	merged := KV{}
	for _, kv := range keyVals {
		for k, v := range kv {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, merged[k])
	}
	return args
}

// kvToArgsNs is like kvToArgs but prepends the namespace under the
// "ns" key.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
