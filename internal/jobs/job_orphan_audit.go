/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/store"
	"github.com/edudash/edudash/pkg/telemetry"
)

const (
	// OrphanAuditJobName is the unique identifier for the enrollment audit job.
	OrphanAuditJobName = "edudash_enrollment_audit"

	// DefaultOrphanAuditInterval is used when no interval is configured.
	DefaultOrphanAuditInterval = time.Hour
)

// Auditor is the part of the store the audit job needs.
type Auditor interface {
	Audit(ctx context.Context) (*store.AuditReport, error)
}

// OrphanAuditJob periodically scans enrollments for references to deleted
// courses and unregistered users.
//
// The job only reports. Orphaned enrollments are the expected outcome of
// deleting a course under the orphan policy, so they are logged at warning
// level and counted in the audit findings metric; nothing is repaired.
type OrphanAuditJob struct {
	// auditor reads the persisted slots
	auditor Auditor

	// storeMutex is shared with other writers of the same store.
	// The audit holds the read lock so it sees a consistent set of slots.
	storeMutex *sync.RWMutex

	interval time.Duration
	metrics  *telemetry.StoreMetrics

	lastReport *store.AuditReport
	reportMu   sync.Mutex
}

// NewOrphanAuditJob creates the audit job.
//
// Parameters:
//   - storeMutex: lock shared with the store's writers, may be nil
//   - auditor: usually a *store.Store
//   - interval: time between runs, DefaultOrphanAuditInterval if not positive
//   - metrics: optional, findings are not recorded when nil
func NewOrphanAuditJob(storeMutex *sync.RWMutex, auditor Auditor, interval time.Duration, metrics *telemetry.StoreMetrics) *OrphanAuditJob {
	if storeMutex == nil {
		storeMutex = &sync.RWMutex{}
	}
	if interval <= 0 {
		interval = DefaultOrphanAuditInterval
	}
	return &OrphanAuditJob{
		auditor:    auditor,
		storeMutex: storeMutex,
		interval:   interval,
		metrics:    metrics,
	}
}

// AddToPeriodicTaskManager registers this job with mgr.
func (j *OrphanAuditJob) AddToPeriodicTaskManager(mgr *PeriodicTaskManager) {
	mgr.AddTask(j)
}

func (j *OrphanAuditJob) GetInterval() time.Duration {
	return j.interval
}

func (j *OrphanAuditJob) GetName() string {
	return OrphanAuditJobName
}

// Run performs a single audit and logs what it found.
func (j *OrphanAuditJob) Run(ctx context.Context) error {
	log := logger.Logger(ctx).WithField("job", OrphanAuditJobName)
	log.Debug("starting enrollment audit")

	j.storeMutex.RLock()
	report, err := j.auditor.Audit(ctx)
	j.storeMutex.RUnlock()
	if err != nil {
		log.WithError(err).Error("enrollment audit failed")
		return err
	}

	j.reportMu.Lock()
	j.lastReport = report
	j.reportMu.Unlock()

	j.metrics.RecordAuditFindings(ctx, OrphanAuditJobName, "orphaned_enrollments", len(report.OrphanedEnrollments))
	j.metrics.RecordAuditFindings(ctx, OrphanAuditJobName, "unregistered_enrollments", len(report.UnregisteredEnrollments))

	if report.Clean() {
		log.Info("enrollment audit found no problems")
		return nil
	}

	for _, e := range report.OrphanedEnrollments {
		log.WithFields(logrus.Fields{
			"enrollmentId": e.ID,
			"userId":       e.UserID,
			"courseId":     e.CourseID,
		}).Warn("enrollment references a missing course")
	}
	for _, e := range report.UnregisteredEnrollments {
		log.WithFields(logrus.Fields{
			"enrollmentId": e.ID,
			"userId":       e.UserID,
		}).Warn("enrollment references an unregistered user")
	}

	log.WithFields(logrus.Fields{
		"orphaned":     len(report.OrphanedEnrollments),
		"unregistered": len(report.UnregisteredEnrollments),
	}).Info("enrollment audit completed with findings")
	return nil
}

// LastReport returns the report of the most recent successful run, or nil
func (j *OrphanAuditJob) LastReport() *store.AuditReport {
	j.reportMu.Lock()
	defer j.reportMu.Unlock()
	return j.lastReport
}
