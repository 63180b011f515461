// Package services contains the load phases: each loader walks one export
// source, resolves dimension references and upserts fact rows with per-row
// transaction boundaries, so one bad row never aborts the batch.
package services

import "github.com/sirupsen/logrus"

// Stats summarizes one load phase. Skipped counts unique-key conflicts
// (already loaded rows); Errors counts rows that failed to parse, resolve or
// insert.
type Stats struct {
	Inserted int
	Skipped  int
	Errors   int
}

func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"inserted": s.Inserted,
		"skipped":  s.Skipped,
		"errors":   s.Errors,
	}
}
