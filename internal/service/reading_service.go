package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// ReadingService manages reading passes, including rereads.
type ReadingService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewReadingService creates a new reading service.
func NewReadingService(st *sqlite.Store, logger *slog.Logger) *ReadingService {
	return &ReadingService{store: st, logger: logger}
}

// StartReading opens the next reading pass for a book: number 1 for a first
// read, higher for rereads. A reread also flips the book to rereading.
func (s *ReadingService) StartReading(ctx context.Context, bookID string) (*domain.Reading, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	maxNumber, err := s.store.MaxReadingNumber(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("max reading number: %w", err)
	}

	readingID, err := id.Generate("read")
	if err != nil {
		return nil, fmt.Errorf("generate reading id: %w", err)
	}

	reading, err := domain.NewReading(readingID, bookID, maxNumber+1)
	if err != nil {
		return nil, err
	}
	reading.MarkAsStarted()

	if err := s.store.CreateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("create reading: %w", err)
	}

	if reading.ReadingNumber > 1 {
		if err := book.SetStatus(domain.StatusRereading); err != nil {
			return nil, err
		}
		if err := s.store.UpdateBook(ctx, book); err != nil {
			return nil, fmt.Errorf("update book: %w", err)
		}
	}

	s.logger.Info("reading started",
		"reading_id", reading.ID,
		"book_id", bookID,
		"reading_number", reading.ReadingNumber)

	return reading, nil
}

// CompleteReading finishes a reading pass.
func (s *ReadingService) CompleteReading(ctx context.Context, readingID string) (*domain.Reading, error) {
	reading, err := s.getReading(ctx, readingID)
	if err != nil {
		return nil, err
	}

	reading.MarkAsCompleted()

	if err := s.store.UpdateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("update reading: %w", err)
	}

	s.logger.Info("reading completed", "reading_id", readingID)

	return reading, nil
}

// GetReading returns a reading pass by ID.
func (s *ReadingService) GetReading(ctx context.Context, readingID string) (*domain.Reading, error) {
	return s.getReading(ctx, readingID)
}

// ListReadings returns all reading passes for a book in reading order.
func (s *ReadingService) ListReadings(ctx context.Context, bookID string) ([]*domain.Reading, error) {
	readings, err := s.store.GetReadingsForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get readings for book: %w", err)
	}
	return readings, nil
}

// DeleteReading removes a reading pass. Sessions that reference it are left
// in place for the integrity checker to report.
func (s *ReadingService) DeleteReading(ctx context.Context, readingID string) error {
	if err := s.store.DeleteReading(ctx, readingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("reading %s not found", readingID)
		}
		return fmt.Errorf("delete reading: %w", err)
	}

	s.logger.Info("reading deleted", "reading_id", readingID)

	return nil
}

func (s *ReadingService) getReading(ctx context.Context, readingID string) (*domain.Reading, error) {
	reading, err := s.store.GetReading(ctx, readingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("reading %s not found", readingID)
		}
		return nil, fmt.Errorf("get reading: %w", err)
	}
	return reading, nil
}
