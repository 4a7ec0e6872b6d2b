package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dpshade/formloom/internal/models"
)

// FormMetadata represents cached metadata for a form
type FormMetadata struct {
	ID         string    `json:"id"`
	Version    string    `json:"version"`
	Name       string    `json:"name"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	Locale     string    `json:"locale,omitempty"`
	FieldNames []string  `json:"field_names,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FilePath   string    `json:"file_path"`
	ModTime    time.Time `json:"mod_time"`
	FileHash   string    `json:"file_hash"`
}

// MetadataCache handles caching of form metadata
type MetadataCache struct {
	cacheDir  string
	cacheFile string
	metadata  map[string]*FormMetadata
	mu        sync.RWMutex // Protects metadata map from concurrent access
}

// NewMetadataCache creates a new metadata cache
func NewMetadataCache(baseDir string) *MetadataCache {
	cacheDir := filepath.Join(baseDir, ".formloom", "cache")
	return &MetadataCache{
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, "metadata.json"),
		metadata:  make(map[string]*FormMetadata),
	}
}

// Load loads the metadata cache from disk
func (c *MetadataCache) Load() error {
	// Ensure cache directory exists
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Load existing cache if it exists
	if _, err := os.Stat(c.cacheFile); os.IsNotExist(err) {
		return nil // No cache file exists yet
	}

	data, err := os.ReadFile(c.cacheFile)
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	c.mu.Lock()
	if err := json.Unmarshal(data, &c.metadata); err != nil {
		// If cache is corrupted, start fresh
		c.metadata = make(map[string]*FormMetadata)
	}
	c.mu.Unlock()

	return nil
}

// Save saves the metadata cache to disk
func (c *MetadataCache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Get retrieves metadata for a file, checking if cache is valid
func (c *MetadataCache) Get(filePath string, fileInfo os.FileInfo) (*FormMetadata, bool) {
	c.mu.RLock()
	cached, exists := c.metadata[filePath]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	// Check if file has been modified
	if !fileInfo.ModTime().Equal(cached.ModTime) {
		return nil, false
	}

	return cached, true
}

// Set stores metadata in the cache
func (c *MetadataCache) Set(relPath string, fullPath string, fileInfo os.FileInfo, form *models.FormSpec) {
	// Calculate file hash for additional validation
	fileHash := ""
	if data, err := os.ReadFile(fullPath); err == nil {
		hash := sha256.Sum256(data)
		fileHash = hex.EncodeToString(hash[:])
	}

	c.mu.Lock()
	c.metadata[relPath] = &FormMetadata{
		ID:         form.ID,
		Version:    form.Version,
		Name:       form.Name,
		Summary:    form.Summary,
		Tags:       form.Tags,
		Locale:     form.Locale,
		FieldNames: form.FieldNames(),
		CreatedAt:  form.CreatedAt,
		UpdatedAt:  form.UpdatedAt,
		FilePath:   form.FilePath,
		ModTime:    fileInfo.ModTime(),
		FileHash:   fileHash,
	}
	c.mu.Unlock()
}

// ToForm converts cached metadata back to a FormSpec. Field entries carry
// names only and the authoring notes are empty; the full definition is
// loaded on demand.
func (m *FormMetadata) ToForm() *models.FormSpec {
	fields := make([]models.Field, 0, len(m.FieldNames))
	for _, name := range m.FieldNames {
		fields = append(fields, models.Field{Name: name})
	}
	return &models.FormSpec{
		ID:        m.ID,
		Version:   m.Version,
		Name:      m.Name,
		Summary:   m.Summary,
		Tags:      m.Tags,
		Locale:    m.Locale,
		Fields:    fields,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		FilePath:  m.FilePath,
	}
}

// Cleanup removes cache entries for files that no longer exist
func (c *MetadataCache) Cleanup(existingFiles map[string]bool) {
	c.mu.Lock()
	for filePath := range c.metadata {
		if !existingFiles[filePath] {
			delete(c.metadata, filePath)
		}
	}
	c.mu.Unlock()
}
