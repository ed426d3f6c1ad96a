package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
)

var _ ports.MessageRepository = (*MessageRepository)(nil)

const insertMessageSQL = `
	INSERT INTO consumed_messages (topic, "partition", "offset", msg_key, msg_value, headers, produced_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (topic, "partition", "offset") DO NOTHING`

// MessageRepository — журнал прочитанных сообщений на Postgres (pgxpool).
// Ключ записи — (topic, partition, offset), повторная вставка игнорируется.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository — конструктор MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// SaveBatch — сохраняет пачку одной транзакцией через pgx.Batch.
func (r *MessageRepository) SaveBatch(ctx context.Context, batch []domain.Message) error {
	if len(batch) == 0 {
		return nil
	}

	var b pgx.Batch
	for i := range batch {
		m := &batch[i]
		if m.Topic == "" {
			return fmt.Errorf("message %d: topic is required", i)
		}
		headers, err := encodeHeaders(m.Headers)
		if err != nil {
			return fmt.Errorf("message %s@%d: %w", m.TopicPartition(), m.Offset, err)
		}
		b.Queue(insertMessageSQL, m.Topic, m.Partition, m.Offset, m.Key, nonNil(m.Value), headers, m.Timestamp)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		// После Commit Rollback вернёт ErrTxClosed — это нормально.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if err := tx.SendBatch(ctx, &b).Close(); err != nil {
		return fmt.Errorf("insert messages: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByOffset — сообщение по координатам. Если не нашли, возвращает (nil, nil).
func (r *MessageRepository) GetByOffset(ctx context.Context, topic string, partition int32, offset int64) (*domain.Message, error) {
	var (
		msg     domain.Message
		headers []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT topic, "partition", "offset", msg_key, msg_value, headers, produced_at
		FROM consumed_messages
		WHERE topic = $1 AND "partition" = $2 AND "offset" = $3
	`, topic, partition, offset).Scan(
		&msg.Topic, &msg.Partition, &msg.Offset, &msg.Key, &msg.Value, &headers, &msg.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select message: %w", err)
	}
	if msg.Headers, err = decodeHeaders(headers); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountByTopic — сколько сообщений топика уже сохранено.
func (r *MessageRepository) CountByTopic(ctx context.Context, topic string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM consumed_messages WHERE topic = $1`, topic,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// Заголовки храним как jsonb: значения []byte кодируются в base64 штатным encoding/json.
func encodeHeaders(h map[string][]byte) ([]byte, error) {
	if len(h) == 0 {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode headers: %w", err)
	}
	return raw, nil
}

func decodeHeaders(raw []byte) (map[string][]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var h map[string][]byte
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	if len(h) == 0 {
		return nil, nil
	}
	return h, nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
