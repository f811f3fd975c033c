// Package classifier assigns a category, priority, confidence score and tags
// to a notification payload using fixed keyword tables.
//
// Classification is a pure function over the payload's title and body. It is
// intended as a cheap pre-processing step before filtering and scheduling,
// not as a trained model: scores are comparative, not probabilistic.
//
// # Usage
//
//	res := classifier.Classify(notification.Payload{
//		Title: "Planned maintenance downtime",
//	})
//	// res.Category == classifier.CategoryMaintenance
//	// res.Tags == []string{"planned", "maintenance", "downtime"}
package classifier
