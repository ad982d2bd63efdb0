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

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// naming conventions for metric names
const (
	MetricNameSuffixTotal    = "_total"
	MetricNameSuffixDuration = "_duration_seconds"
)

const (
	AttrOperation = "edudash_operation"
	AttrFinding   = "edudash_finding"
	AttrStatus    = "edudash_status"
	AttrJob       = "edudash_job"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func BuildMetricName(baseName, suffix string) string {
	prefixedName := "edudash_" + baseName
	if suffix == "" {
		return prefixedName
	}
	return prefixedName + suffix
}

// creates attribute for store operation name, e.g. "course.add"
func WithOperation(operation string) attribute.KeyValue {
	return attribute.String(AttrOperation, operation)
}

// creates attribute for the kind of problem an audit reported
func WithFinding(finding string) attribute.KeyValue {
	return attribute.String(AttrFinding, finding)
}

// creates attribute for status
func WithStatus(status string) attribute.KeyValue {
	return attribute.String(AttrStatus, status)
}

// creates attribute for periodic job name
func WithJob(job string) attribute.KeyValue {
	return attribute.String(AttrJob, job)
}

// StatusOf maps an operation result onto StatusSuccess / StatusError
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
