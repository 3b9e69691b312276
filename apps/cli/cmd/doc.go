// Package cmd implements the xhrmock CLI commands using Cobra.
//
// Available commands:
//   - run: Perform a simulated call against fixture routes and print its events
//   - validate: Check fixture files against the fixture schema
//   - routes: List the routes declared in fixture files
//   - init: Create an example fixture and config file
//   - version: Show xhrmock version information
//
// run supports console, JSON, JUnit and TAP output and a watch mode that re-runs
// the call whenever a fixture changes.
package cmd
