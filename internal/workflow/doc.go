// Package workflow holds the operation-level surface shared by workflow
// operation handlers: the string parameters an operation is configured with,
// the tag-diff syntax used by target-tags, and the result an operation hands
// back to the owning workflow.
package workflow
