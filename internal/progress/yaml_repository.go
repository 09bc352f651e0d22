package progress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLRepository implements Repository on one YAML file per user, for offline
// use without a database.
type YAMLRepository struct {
	mu        sync.Mutex
	directory string
}

func NewYAMLRepository(directory string) (*YAMLRepository, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll() > %w", err)
	}
	return &YAMLRepository{directory: directory}, nil
}

type userProgressFile struct {
	Records    []Record    `yaml:"records"`
	Watermarks []Watermark `yaml:"watermarks,omitempty"`
}

func (r *YAMLRepository) filePath(userID string) string {
	return filepath.Join(r.directory, userID+".yml")
}

func (r *YAMLRepository) load(userID string) (*userProgressFile, error) {
	contents, err := os.ReadFile(r.filePath(userID))
	if os.IsNotExist(err) {
		return &userProgressFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile() > %w", err)
	}

	var file userProgressFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	return &file, nil
}

func (r *YAMLRepository) save(userID string, file *userProgressFile) error {
	contents, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.WriteFile(r.filePath(userID), contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile() > %w", err)
	}
	return nil
}

func (r *YAMLRepository) Find(_ context.Context, userID, dramaID, keywordID string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, record := range file.Records {
		if record.DramaID == dramaID && record.KeywordID == keywordID {
			return &record, nil
		}
	}
	return nil, nil
}

func (r *YAMLRepository) FindByUserAndDrama(_ context.Context, userID, dramaID string) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, record := range file.Records {
		if record.DramaID == dramaID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *YAMLRepository) Upsert(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(record.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range file.Records {
		if existing.DramaID == record.DramaID && existing.KeywordID == record.KeywordID {
			file.Records[i] = *record
			replaced = true
			break
		}
	}
	if !replaced {
		file.Records = append(file.Records, *record)
	}
	return r.save(record.UserID, file)
}

func (r *YAMLRepository) Delete(_ context.Context, userID, dramaID, keywordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(userID)
	if err != nil {
		return err
	}
	kept := file.Records[:0]
	for _, record := range file.Records {
		if record.DramaID == dramaID && record.KeywordID == keywordID {
			continue
		}
		kept = append(kept, record)
	}
	file.Records = kept
	return r.save(userID, file)
}

func (r *YAMLRepository) FindWatermark(_ context.Context, userID, dramaID string) (*Watermark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, watermark := range file.Watermarks {
		if watermark.DramaID == dramaID {
			return &watermark, nil
		}
	}
	return nil, nil
}

func (r *YAMLRepository) SaveWatermark(_ context.Context, watermark *Watermark) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load(watermark.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range file.Watermarks {
		if existing.DramaID == watermark.DramaID {
			file.Watermarks[i] = *watermark
			replaced = true
			break
		}
	}
	if !replaced {
		file.Watermarks = append(file.Watermarks, *watermark)
	}
	return r.save(watermark.UserID, file)
}
