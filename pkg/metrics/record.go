package metrics

import "runtime"

// RecordSubmissionAccepted counts a submission handed to the queue.
func RecordSubmissionAccepted() {
	globalManager.submissionsAccepted.Inc()
}

// RecordSubmissionDuplicate counts a submission already seen.
func RecordSubmissionDuplicate() {
	globalManager.submissionsDuplicate.Inc()
}

// RecordSubmissionRejected counts a refused submission.
func RecordSubmissionRejected(reason string) {
	globalManager.submissionsRejected.WithLabelValues(reason).Inc()
}

// RecordTrendClassification counts one computed trend label.
func RecordTrendClassification(trend string) {
	globalManager.trendClassifications.WithLabelValues(trend).Inc()
}

// RecordAlertRaised counts an alert created by the rule engine.
func RecordAlertRaised(alertType, severity string) {
	globalManager.alertsRaised.WithLabelValues(alertType, severity).Inc()
}

// RecordAlertSuppressed counts a rule match skipped during its cooldown.
func RecordAlertSuppressed(rule string) {
	globalManager.alertsSuppressed.WithLabelValues(rule).Inc()
}

// UpdateRulesLoaded sets the number of compiled rules.
func UpdateRulesLoaded(n int) {
	globalManager.rulesLoaded.Set(float64(n))
}

// RecordRulesReload counts a rule file reload by outcome.
func RecordRulesReload(outcome string) {
	globalManager.rulesReloads.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordBackendRequest counts a table store call and observes its latency.
func RecordBackendRequest(backend, op, status string, latencyMs float64) {
	globalManager.backendRequests.WithLabelValues(backend, op, status).Inc()
	globalManager.backendRequestLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// UpdateQueueSize sets the queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a refused enqueue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency observes one submission's processing time.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed ingestion step.
func RecordWorkerError(step string) {
	globalManager.workerErrors.WithLabelValues(step).Inc()
}

// UpdateWebSocketClients sets the number of live alert clients.
func UpdateWebSocketClients(n int) {
	globalManager.websocketClients.Set(float64(n))
}

// RecordWebhookDelivery counts an outbound webhook by kind and outcome.
func RecordWebhookDelivery(kind, outcome string) {
	globalManager.webhookDeliveries.WithLabelValues(kind, outcome).Inc()
}

// RecordJournalWrite counts a journal write by outcome.
func RecordJournalWrite(outcome string) {
	globalManager.journalWrites.WithLabelValues(outcome).Inc()
}

// UpdateVideoCallsActive sets the number of active mock calls.
func UpdateVideoCallsActive(n int) {
	globalManager.videoCallsActive.Set(float64(n))
}

// RecordErrorByComponent counts an error raised by a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMetrics samples heap usage and goroutines.
func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}
