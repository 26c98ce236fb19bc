package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/operations"
)

// execute runs op and logs its outcome. The report is returned even when op fails.
func execute(ctx context.Context, op operations.Operation) (operations.Report, error) {
	log.Debugf("Running %s", op.Name())
	report, err := op.Execute(ctx)
	if err != nil {
		if report != nil {
			log.WithField("run", report.RunID()).Errorf("%s: %s", op.Name(), report.Summary())
		}
		return report, err
	}
	log.WithField("run", report.RunID()).Info(report.Summary())
	return report, nil
}
