// Package output records simulated calls and renders their event traces.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML for CI systems
//   - TAP: Test Anything Protocol format
//
// Each formatter has FormatTrace, FormatError and FormatHeader methods;
// JSON, JUnit and TAP accumulate traces and write them on Flush.
package output
