// Package diag provides the diagnostics carried through a recognition run.
// Every stage reports recoverable issues here instead of failing; the list
// of diagnostics plus the run outcome is part of the pipeline's contract.
package diag
