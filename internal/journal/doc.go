// Package journal keeps an in-memory SQLite record of validation runs and
// their trials.
//
// A Journal implements oracle.Recorder. Each Journal owns a private
// ":memory:" database that disappears on Close; nothing is written to disk
// and nothing carries over between processes.
package journal
