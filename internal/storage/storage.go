package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpshade/formloom/internal/models"
	"gopkg.in/yaml.v3"
)

// Storage handles all file system operations for forms, locale string
// tables, and the metadata cache.
type Storage struct {
	rootPath string
	cache    *MetadataCache
}

// NewStorage creates a new storage instance
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".formloom")
	}

	cache := NewMetadataCache(rootPath)
	if err := cache.Load(); err != nil {
		// Log error but don't fail - cache is optional
		fmt.Fprintf(os.Stderr, "Warning: failed to load metadata cache: %v\n", err)
	}

	return &Storage{
		rootPath: rootPath,
		cache:    cache,
	}, nil
}

// InitLibrary creates the directory structure for a form library
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, "forms"),
		filepath.Join(s.rootPath, "archive"),
		filepath.Join(s.rootPath, "locales"),
		filepath.Join(s.rootPath, ".formloom"),
		filepath.Join(s.rootPath, ".formloom", "cache"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// LoadForm loads a form from a markdown file with YAML frontmatter
func (s *Storage) LoadForm(path string) (*models.FormSpec, error) {
	fullPath := filepath.Join(s.rootPath, path)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open form file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}

	form, err := parseFormFile(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	form.FilePath = path

	return form, nil
}

// SaveForm saves a form to a markdown file with YAML frontmatter
func (s *Storage) SaveForm(form *models.FormSpec) error {
	fullPath := filepath.Join(s.rootPath, form.FilePath)

	// Ensure directory exists
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	content, err := serializeForm(form)
	if err != nil {
		return fmt.Errorf("failed to serialize form: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}

	return nil
}

// DeleteForm deletes a form file from the file system
func (s *Storage) DeleteForm(form *models.FormSpec) error {
	fullPath := filepath.Join(s.rootPath, form.FilePath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("form file does not exist: %s", fullPath)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete form file: %w", err)
	}

	return nil
}

// ArchiveForm moves a form file into the archive directory, preserving it
// out of the active library.
func (s *Storage) ArchiveForm(form *models.FormSpec) error {
	oldPath := filepath.Join(s.rootPath, form.FilePath)
	newRel := filepath.Join("archive", filepath.Base(form.FilePath))
	newPath := filepath.Join(s.rootPath, newRel)

	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to archive form file: %w", err)
	}

	form.FilePath = newRel
	return nil
}

// ListForms returns all forms in the library (excluding archived forms)
func (s *Storage) ListForms() ([]*models.FormSpec, error) {
	return s.listFormsFromDir("forms")
}

// listFormsFromDir returns forms from a specific directory with caching
func (s *Storage) listFormsFromDir(dir string) ([]*models.FormSpec, error) {
	formsDir := filepath.Join(s.rootPath, dir)

	var forms []*models.FormSpec
	existingFiles := make(map[string]bool)
	cacheModified := false

	err := filepath.Walk(formsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".md") {
			relPath, _ := filepath.Rel(s.rootPath, path)
			existingFiles[relPath] = true

			// Try to get from cache first
			if cached, valid := s.cache.Get(relPath, info); valid {
				forms = append(forms, cached.ToForm())
				return nil
			}

			// Cache miss - load and parse the form
			form, err := s.LoadForm(relPath)
			if err != nil {
				// Log error but continue walking
				fmt.Fprintf(os.Stderr, "Warning: failed to load form %s: %v\n", relPath, err)
				return nil
			}

			// Cache the loaded form metadata
			s.cache.Set(relPath, filepath.Join(s.rootPath, relPath), info, form)
			cacheModified = true

			forms = append(forms, form)
		}

		return nil
	})

	// Cleanup cache entries for deleted files
	s.cache.Cleanup(existingFiles)

	// Save cache if it was modified
	if cacheModified {
		if err := s.cache.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save metadata cache: %v\n", err)
		}
	}

	return forms, err
}

// ListArchivedForms returns all archived forms
func (s *Storage) ListArchivedForms() ([]*models.FormSpec, error) {
	archiveDir := filepath.Join(s.rootPath, "archive")
	if _, err := os.Stat(archiveDir); os.IsNotExist(err) {
		return []*models.FormSpec{}, nil // Return empty slice if archive doesn't exist
	}

	return s.listFormsFromDir("archive")
}

// Helper functions

func parseFormFile(content []byte) (*models.FormSpec, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))

	// Check for frontmatter delimiter
	if !scanner.Scan() || scanner.Text() != "---" {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}

	// Read frontmatter
	var frontmatterLines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}

	// Parse YAML frontmatter
	frontmatter := strings.Join(frontmatterLines, "\n")
	var form models.FormSpec
	if err := yaml.Unmarshal([]byte(frontmatter), &form); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	// Read remaining content
	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	// Join content preserving original formatting
	form.Content = strings.Join(contentLines, "\n")
	// Trim only leading whitespace/newlines
	form.Content = strings.TrimLeft(form.Content, " \t\n")

	return &form, nil
}

func serializeForm(form *models.FormSpec) ([]byte, error) {
	var buf bytes.Buffer

	// Write frontmatter delimiter
	buf.WriteString("---\n")

	// Serialize form metadata to YAML
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(form); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	// Write closing delimiter
	buf.WriteString("---\n")

	// Write content with proper spacing
	if form.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(form.Content)
		// Ensure file ends with newline
		if !strings.HasSuffix(form.Content, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
