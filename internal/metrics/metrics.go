package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderlog_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	refreshRotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderlog_refresh_rotations_total",
		Help: "Number of refresh rotations grouped by status.",
	}, []string{"status"})

	logoutEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderlog_logout_events_total",
		Help: "Number of logout attempts grouped by status.",
	}, []string{"status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderlog_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})

	notesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wanderlog_notes_created_total",
		Help: "Number of notes successfully created.",
	})

	moderationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderlog_moderation_decisions_total",
		Help: "Moderation status changes grouped by resulting status.",
	}, []string{"status"})

	mediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderlog_media_uploads_total",
		Help: "Media uploads grouped by declared kind.",
	}, []string{"kind"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncRefresh increments the refresh rotation counter.
func IncRefresh(status string) {
	refreshRotations.WithLabelValues(status).Inc()
}

// IncLogout increments the logout counter.
func IncLogout(status string) {
	logoutEvents.WithLabelValues(status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}

// IncNoteCreated increments the note creation counter.
func IncNoteCreated() {
	notesCreated.Inc()
}

// IncModeration increments the moderation decision counter.
func IncModeration(status string) {
	moderationDecisions.WithLabelValues(status).Inc()
}

// IncMediaUpload increments the media upload counter.
func IncMediaUpload(kind string) {
	mediaUploads.WithLabelValues(kind).Inc()
}
