// Package internal contains the implementation packages of smartedit.
//
// # Package Organization
//
// The edit pipeline:
//
//   - types: components, edit intents, history records and design tokens
//   - indexer: finds the editable components of an HTML document
//   - intent: turns a plain-language request into an edit intent
//   - mutation: applies an intent to the document's element
//   - history: bounded record of accepted edits
//   - editor: the per-document session running requests through the above
//
// Around it:
//
//   - config, logging, errors: configuration, structured logs, typed errors
//   - workspace: bounded set of open sessions
//   - server, websocket, renderer: HTTP API, live reload, preview page
//   - watcher: reloads documents changed on disk
//   - export: Markdown conversion
//   - version: build information
//
// # Concurrency
//
// A session serializes its requests; the workspace, hub and watcher are
// safe for concurrent use. Observers registered on sessions and the
// workspace run synchronously on the goroutine that made the change.
package internal
