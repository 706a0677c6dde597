// Package assistant answers student questions: it validates the request,
// waits out the simulated backend latency and asks the resolver.
package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/vta/internal/config"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/resolver"
	"github.com/hyperjump/vta/pkg/utils"
	"go.uber.org/zap"
)

var (
	// ErrInvalidImage is returned when the image is not valid base64.
	ErrInvalidImage = errors.New("image is not valid base64")
	// ErrImageTooLarge is returned when the decoded image exceeds the size limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	return errors.Is(err, models.ErrEmptyQuestion) ||
		errors.Is(err, models.ErrQuestionTooShort) ||
		errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrImageTooLarge)
}

// Service answers questions.
type Service struct {
	resolver *resolver.Resolver
	config   *config.AssistantConfig
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a service that answers with r.
func NewService(r *resolver.Resolver, cfg *config.AssistantConfig, opts ...Option) *Service {
	s := &Service{
		resolver: r,
		config:   cfg,
		logger:   zap.NewNop(),
		sleep:    wait,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask validates req, waits the simulated latency and resolves the question.
// req.Question is trimmed in place.
func (s *Service) Ask(ctx context.Context, req *models.QuestionRequest) (*models.AnswerResponse, error) {
	result, err := s.AskResult(ctx, req)
	if err != nil {
		return nil, err
	}
	return models.NewAnswerResponse(result), nil
}

// AskResult is Ask returning the full resolver result, including the echoed question.
func (s *Service) AskResult(ctx context.Context, req *models.QuestionRequest) (models.QueryResult, error) {
	if err := req.Validate(s.config.MinQuestionLength); err != nil {
		return models.QueryResult{}, err
	}
	if req.HasImage() {
		n, err := ImageSize(*req.Image)
		if err != nil {
			return models.QueryResult{}, err
		}
		if s.config.MaxImageBytes > 0 && int64(n) > s.config.MaxImageBytes {
			return models.QueryResult{}, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, n, s.config.MaxImageBytes)
		}
		// The image is accepted but plays no part in matching.
		s.logger.Info("processed image", zap.Int("bytes", n))
	}
	s.logger.Info("processing question", zap.String("question", utils.Truncate(req.Question, 100)))

	if err := s.sleep(ctx, s.config.SimulatedLatency); err != nil {
		return models.QueryResult{}, err
	}

	result, match := s.resolver.Explain(req.Question)
	s.logger.Debug("question resolved",
		zap.String("stage", string(match.Stage)),
		zap.Int("entry_index", match.EntryIndex),
		zap.String("category", match.Category),
		zap.Float64("ratio", match.Ratio),
		zap.Int("links", len(result.Links)),
	)
	return result, nil
}

// Explain resolves question without validation or latency.
func (s *Service) Explain(question string) (models.QueryResult, resolver.Match) {
	return s.resolver.Explain(question)
}

// Resolver returns the underlying resolver.
func (s *Service) Resolver() *resolver.Resolver {
	return s.resolver
}

// ImageSize decodes a base64 image, with or without a data URL prefix, and
// returns its size in bytes.
func ImageSize(encoded string) (int, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		if i := strings.Index(encoded, ","); i >= 0 {
			encoded = encoded[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return len(data), nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
