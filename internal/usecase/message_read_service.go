package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
)

var _ ports.MessageReadService = (*MessageReadService)(nil)

// ErrStorageDisabled — хранилище не настроено, читать нечего.
var ErrStorageDisabled = errors.New("message storage is disabled")

// MessageReadService — чтение сохранённых сообщений: сначала кэш, при промахе БД с записью в кэш.
type MessageReadService struct {
	repo  ports.MessageRepository
	cache ports.MessageCache
	log   ports.Logger
}

// NewMessageReadService — DI-конструктор. repo и cache могут быть nil.
func NewMessageReadService(repo ports.MessageRepository, cache ports.MessageCache, log ports.Logger) *MessageReadService {
	return &MessageReadService{repo: repo, cache: cache, log: log}
}

// GetMessage — (*Message, nil) или (nil, nil), если записи нет.
func (s *MessageReadService) GetMessage(ctx context.Context, ref domain.MessageRef) (*domain.Message, error) {
	if s.cache != nil {
		if msg, found := s.cache.Get(ctx, ref); found {
			return msg, nil
		}
	}
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}

	start := time.Now()
	msg, err := s.repo.GetByOffset(ctx, ref.Topic, ref.Partition, ref.Offset)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByOffset failed ref=%s err=%v", ref, err)
		return nil, err
	}
	if msg != nil && s.cache != nil {
		if setErr := s.cache.Set(ctx, *msg); setErr != nil {
			s.log.Warnf(ctx, "cache.Set failed ref=%s err=%v", ref, setErr)
		}
	}
	s.log.Infof(ctx, "db fetch ref=%s took=%s", ref, time.Since(start))
	return msg, nil
}

// CountMessages — число сохранённых сообщений топика.
func (s *MessageReadService) CountMessages(ctx context.Context, topic string) (int64, error) {
	if s.repo == nil {
		return 0, ErrStorageDisabled
	}
	return s.repo.CountByTopic(ctx, topic)
}
