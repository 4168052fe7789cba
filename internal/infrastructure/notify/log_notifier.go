package notify

import (
	"context"

	quoteapp "github.com/beanport/backend/internal/application/quote"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogNotifier emits inquiry lifecycle events to the structured log. It is the
// default sink for intake notifications; a mail or webhook sink would
// implement the same interface.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{logger: log}
}

// RFQReceived logs a newly submitted inquiry
func (n *LogNotifier) RFQReceived(ctx context.Context, rfq quote.RFQ) {
	n.log(ctx, "inquiry received", rfq)
}

// RFQQuoted logs an inquiry that had its quote sent
func (n *LogNotifier) RFQQuoted(ctx context.Context, rfq quote.RFQ) {
	n.log(ctx, "inquiry quoted", rfq)
}

// RFQClosed logs an inquiry reaching a terminal state
func (n *LogNotifier) RFQClosed(ctx context.Context, rfq quote.RFQ) {
	n.log(ctx, "inquiry closed", rfq)
}

func (n *LogNotifier) log(ctx context.Context, msg string, rfq quote.RFQ) {
	log := n.logger
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}
	log.Info(msg,
		zap.String("rfq_id", rfq.ID.String()),
		zap.String("number", rfq.Number),
		zap.String("status", rfq.Status.String()),
		zap.String("priority", string(rfq.Priority)),
		zap.String("company", rfq.Company.Name),
	)
}

// Ensure LogNotifier implements the intake Notifier
var _ quoteapp.Notifier = (*LogNotifier)(nil)
