// Package filter evaluates declarative rules against notification payloads,
// producing an allow/modify/block decision before anything is scheduled.
//
// A rule is an ordered list of ANDed conditions plus an ordered list of
// actions. Enabled rules evaluate by priority, higher first, with ties kept
// in insertion order. Conditions compare payload fields with string
// operators (equals, contains, starts_with, regex, ...); actions mutate a
// working copy of the payload (delay hint, redirect, priority or content
// override, tag grouping, archive/read flags) or block the pipeline
// entirely.
//
// Blocking is final: once a block action fires, no later rule can reverse
// it, and modifications made by earlier actions of the same rule are
// discarded.
//
// # Usage
//
//	engine, err := filter.NewEngine(ctx,
//		filter.WithRules(filter.Rule{
//			Name:     "mute-system",
//			Enabled:  true,
//			Priority: 10,
//			Conditions: []filter.Condition{
//				{Field: "channel", Operator: filter.OperatorEquals, Value: "system"},
//			},
//			Actions: []filter.Action{{Type: filter.ActionBlock}},
//		}),
//	)
//	if err != nil {
//		return err
//	}
//
//	res := engine.Process(payload)
//	if res.Blocked {
//		return nil // nothing to schedule
//	}
//
// Rule sets can be persisted through a storage.Store and authored in YAML
// via LoadRulesFile. Management (CRUD, toggle) is expected to be driven by
// an external surface; the engine itself only reads rules during Process.
package filter
