package driven

import (
	"context"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// InquiryStore defines the driven port for persisting contact form submissions.
type InquiryStore interface {
	Create(ctx context.Context, inquiry model.Inquiry) error
	GetByID(ctx context.Context, id string) (*model.Inquiry, error)
	ListRecent(ctx context.Context, limit int) ([]model.Inquiry, error)
	Count(ctx context.Context) (int, error)
}
