// Package notification defines the shared notification data model: the
// payload and its routing metadata used by the classifier, the filter rule
// engine and the scheduler.
//
// A Payload carries content (title, body), routing metadata (channel,
// priority, type, tag, target URL), optional call-to-action buttons and a
// free-form data map for anything the filter engine or delivery conditions
// need to attach.
//
// # Usage
//
//	p := notification.Payload{
//		Title:   "Deploy finished",
//		Body:    "Build #42 is live",
//		Channel: notification.ChannelSystem,
//	}
//
//	title, ok := p.Field("title") // field access for filter conditions
package notification
