// Package report implements the trend analysis engine for multi-section
// monthly traffic report sheets.
//
// # Architecture
//
// The package is organized around four components:
//
//  1. Scanner: one pass over the sheet producing ordered Section descriptors
//  2. Extractor: materializes a Table of classified rows for one Section
//  3. Engine: computes year-over-year and month-over-month percentages
//  4. Writer: recomputes the grid-resident Total and % Change rows and
//     writes metrics and narrative text back into the sheet
//
// # Data Flow
//
// The typical flow through this package:
//
//	Sheet → Scanner → Sections → Extractor → Table → Engine → Metrics → Writer → Sheet
//
// Sections carry no declared schema; boundaries, column roles and row
// kinds are all inferred from cell text. Column roles are resolved once
// per table through a fixed, prioritized predicate list and consumed as a
// role map afterwards; header text is never re-matched ad hoc.
//
// # Error Handling
//
// Numeric edge cases (missing baselines, zero denominators, non-numeric
// cells) never surface as errors: they resolve to an explicit
// absence-marker (the invalid Percent). Structural absences (no year
// columns, missing Total or % Change rows) skip the affected step and
// leave the sheet untouched there.
package report
