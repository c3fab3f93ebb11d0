// Package config is the configuration engine for the Lume shell.
//
// It loads the root TOML file and everything reachable through its
// imports, deep-merges the documents with per-leaf provenance,
// validates the result against the declared schema, and publishes
// immutable versioned snapshots. A filesystem watcher re-runs the
// pipeline on edits; path-addressed get/set/reset route through the
// same pipeline, so there is exactly one writer at all times.
//
// # Architecture
//
//	document  →  merge  →  schema  →  store  →  notify
//	   ↑                                 │
//	   └────────── watcher ←─────────────┘
//
// Sub-packages:
//
//   - document: TOML loading and import graph resolution
//   - merge: deep merge with provenance tracking
//   - schema: declarative schema, validation, defaulting
//   - paths: dotted-path grammar and literal parsing
//   - store: immutable snapshots behind an atomic swap
//   - notify: per-prefix change subscriptions
//   - watcher: debounced reload loop and filesystem events
//
// # Basic usage
//
//	eng, err := config.New(path, shell.Schema())
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng.Start()
//	defer eng.Close()
//
//	scale, _ := eng.Get("bar.scale")
//	sub, _ := eng.Subscribe("bar")
//	for ev := range sub.Events() {
//		apply(ev.Value)
//	}
package config
