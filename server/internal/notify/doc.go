// Package notify delivers revised-target changes to configured webhooks.
//
// Slack receives a plain text message, Teams a MessageCard and plain http
// targets the Event as JSON. Delivery is asynchronous; failures are logged
// and never reach the caller.
package notify
