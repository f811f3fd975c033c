// Package activity tracks per-owner "last active" timestamps used by
// delivery conditions that gate notifications on recent user activity.
package activity
