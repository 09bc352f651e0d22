package progress

import (
	"context"
	"sync"
)

// Repository defines the capability set the tracker needs from its local
// authoritative store: lookups, upsert, and milestone watermark persistence.
type Repository interface {
	Find(ctx context.Context, userID, dramaID, keywordID string) (*Record, error)
	FindByUserAndDrama(ctx context.Context, userID, dramaID string) ([]Record, error)
	Upsert(ctx context.Context, record *Record) error
	Delete(ctx context.Context, userID, dramaID, keywordID string) error
	FindWatermark(ctx context.Context, userID, dramaID string) (*Watermark, error)
	SaveWatermark(ctx context.Context, watermark *Watermark) error
}

// MemoryRepository is an in-memory Repository, used in tests and as the
// default store when neither a database nor a notes directory is configured.
type MemoryRepository struct {
	mu         sync.RWMutex
	records    map[string]Record
	watermarks map[string]Watermark
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:    make(map[string]Record),
		watermarks: make(map[string]Watermark),
	}
}

func recordKey(userID, dramaID, keywordID string) string {
	return userID + "|" + dramaID + "|" + keywordID
}

func watermarkKey(userID, dramaID string) string {
	return userID + "|" + dramaID
}

func (r *MemoryRepository) Find(_ context.Context, userID, dramaID, keywordID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[recordKey(userID, dramaID, keywordID)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *MemoryRepository) FindByUserAndDrama(_ context.Context, userID, dramaID string) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var records []Record
	for _, record := range r.records {
		if record.UserID == userID && record.DramaID == dramaID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey(record.UserID, record.DramaID, record.KeywordID)] = *record
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, dramaID, keywordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, recordKey(userID, dramaID, keywordID))
	return nil
}

func (r *MemoryRepository) FindWatermark(_ context.Context, userID, dramaID string) (*Watermark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	watermark, ok := r.watermarks[watermarkKey(userID, dramaID)]
	if !ok {
		return nil, nil
	}
	return &watermark, nil
}

func (r *MemoryRepository) SaveWatermark(_ context.Context, watermark *Watermark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watermarks[watermarkKey(watermark.UserID, watermark.DramaID)] = *watermark
	return nil
}
