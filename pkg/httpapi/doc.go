// Package httpapi exposes the notification engine over HTTP using chi.
//
// The API wraps a scheduler and a filter engine behind JSON endpoints:
//
//	POST   /notifications                     ingest: classify → filter → schedule
//	POST   /notifications/recurring           schedule a recurring series
//	GET    /notifications/pending             all pending entries
//	DELETE /notifications/{id}                cancel one entry
//	GET    /users/{ownerID}/notifications     entries for an owner (?status=)
//	DELETE /users/{ownerID}/notifications     cancel all pending for an owner
//	POST   /classify                          classify a payload (no side effects)
//	GET    /filters                           list rules
//	POST   /filters                           add a rule
//	PUT    /filters/{id}                      update a rule
//	DELETE /filters/{id}                      remove a rule
//	POST   /filters/{id}/toggle               enable/disable a rule
//	POST   /filters/process                   preview a payload through the rules
//	POST   /cleanup                           remove old terminal entries
//	GET    /stats                             per-status entry counts
//
// Ingestion runs the full pipeline: the classifier fills category and
// priority when the caller left them empty, filter rules may modify, delay or
// block the payload, and surviving payloads are scheduled for delivery.
//
// # Usage
//
//	api, err := httpapi.New(sched, filters, httpapi.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	srv := httpserver.New(httpserver.WithAddr(":8080"), httpserver.WithLogger(log))
//	return srv.Run(ctx, api.Router())
//
// Domain errors map onto HTTP status codes: invalid schedules and rules
// produce 422, unknown rules 404, duplicate rules 409, malformed requests
// 400. Everything else is a 500 with no internals leaked.
package httpapi
