// Package shared holds helpers used by more than one WhatsFlow package.
// testutil provides a capturing slog handler for asserting on log output.
package shared
