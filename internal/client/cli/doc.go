// Package cli is the interactive depositkeeper client.
//
// It wires configuration, the local cache, the backend gateway and the
// services into an App, restores the previous session and runs a REPL.
// A background watcher pings the backend and switches the prompt between
// online and offline.
//
// Typical flow:
//
//	login → properties → use <id> → rooms → room add / use <id>
//	capture <file> → upload → progress → send
//
// Anonymous landlords open a shared report with "shared <uuid>"; the same
// view is available without the REPL through the root command's "shared"
// subcommand.
package cli
