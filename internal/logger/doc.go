// Package logger wraps zap with a process-wide atomic level and
// context-first helpers (Info, Infof, InfoKV and friends).
// The level is adjusted once the configuration is loaded.
package logger
