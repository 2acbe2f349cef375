package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/repository"
)

const pendingRequestsCacheKey = "enroll:pending_requests"

// RequestService handles the public submission path and the admin review
// listing of enrollment requests.
type RequestService interface {
	Submit(ctx context.Context, payload dto.EnrollSubmitRequest) (dto.EnrollSubmitResponse, error)
	ListPending(ctx context.Context) ([]dto.EnrollRequestResponse, error)
}

type requestService struct {
	requests  repository.EnrollRequestRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewRequestService constructs the enrollment request service. The cache
// client may be nil, in which case every listing hits the database.
func NewRequestService(requests repository.EnrollRequestRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) RequestService {
	return &requestService{
		requests:  requests,
		validator: validate,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "request_service").Logger(),
	}
}

func (s *requestService) Submit(ctx context.Context, payload dto.EnrollSubmitRequest) (dto.EnrollSubmitResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollSubmitResponse{}, err
	}

	request := models.EnrollRequest{
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Email:     strings.TrimSpace(payload.Email),
		Program:   strings.TrimSpace(payload.Program),
		YearLevel: strings.TrimSpace(payload.YearLevel),
		Contact:   strings.TrimSpace(payload.Contact),
		Address:   strings.TrimSpace(payload.Address),
		Status:    models.EnrollStatusPending,
	}

	if err := s.requests.Create(ctx, &request); err != nil {
		return dto.EnrollSubmitResponse{}, err
	}

	s.dropCache(ctx)
	s.logger.Info().Uint("request_id", request.ID).Msg("enrollment request submitted")

	return dto.EnrollSubmitResponse{ID: request.ID, Status: request.Status}, nil
}

func (s *requestService) ListPending(ctx context.Context) ([]dto.EnrollRequestResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, pendingRequestsCacheKey).Result(); err == nil {
			var responses []dto.EnrollRequestResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &responses); unmarshalErr == nil {
				s.logger.Debug().Msg("pending request cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read pending request cache")
		}
	}

	requests, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EnrollRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, dto.NewEnrollRequestResponse(request))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, pendingRequestsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store pending request cache")
			}
		}
	}

	return responses, nil
}

func (s *requestService) dropCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, pendingRequestsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate pending request cache")
	}
}
