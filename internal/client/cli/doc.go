// Package cli provides the interactive marketplace command-line client.
//
// It wires configuration, the local offline cache, API services and an
// interactive REPL that supports online/offline operation. The REPL handles
// a few global commands and hands the rest to the current page: the sign-in
// page drives flows.AuthFlow, the assessment page drives
// flows.AssessmentFlow. Flows request page changes through App.Navigate;
// the REPL follows them after each command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
