// Package audit submits request audit entries built from a RequestContext.
package audit

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
)

// Entry is a single audit record. Tags are indexed for search, details are payload.
type Entry struct {
	TransactionName string
	Path            string
	Tags            map[string]string
	Details         map[string]string
}

// Sink accepts audit entries. Implementations must be safe for concurrent use.
type Sink interface {
	Submit(ctx context.Context, entry Entry) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entry Entry) error

func (f SinkFunc) Submit(ctx context.Context, entry Entry) error { return f(ctx, entry) }

// NewEntry builds the audit entry of rc for the given transaction.
func NewEntry(rc metadata.RequestContext, transactionName, path string, extra ...metadata.Header) Entry {
	return Entry{
		TransactionName: transactionName,
		Path:            path,
		Tags:            rc.AuditTags(transactionName, path),
		Details:         rc.AuditDetails(extra...),
	}
}

// Record builds the entry of rc and submits it to sink.
func Record(
	ctx context.Context,
	sink Sink,
	rc metadata.RequestContext,
	transactionName, path string,
	extra ...metadata.Header,
) error {
	if sink == nil {
		return nil
	}
	if err := sink.Submit(ctx, NewEntry(rc, transactionName, path, extra...)); err != nil {
		return errors.Wrapf(err, "submit audit entry for %s", transactionName)
	}
	return nil
}

// LoggerSink writes audit entries as structured log lines.
type LoggerSink struct {
	log *logger.Logger
}

// NewLoggerSink returns a sink writing to log, or to the context logger when log is nil.
func NewLoggerSink(log *logger.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

func (s *LoggerSink) Submit(ctx context.Context, entry Entry) error {
	log := s.log
	if log == nil {
		log = logger.FromContext(ctx)
	}
	log.Info("audit",
		logger.String("transaction", entry.TransactionName),
		logger.String("path", entry.Path),
		logger.Any("tags", entry.Tags),
		logger.Any("details", entry.Details),
	)
	return nil
}
