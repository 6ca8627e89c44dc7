package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mixwise-api/internal/pkg/common"

	"gopkg.in/yaml.v3"
)

// Source 目錄來源
type Source interface {
	Fetch(ctx context.Context) (*Document, error)
	String() string
}

// FileSource 從本機 JSON、YAML 或 CSV 檔案讀取目錄
type FileSource struct {
	Path string
}

// NewFileSource 創建檔案來源
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) String() string {
	return "file:" + s.Path
}

// Fetch 讀取並解析檔案
func (s *FileSource) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f, filepath.Ext(s.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}
	return doc, nil
}

// Decode 依副檔名解析目錄內容
func Decode(r io.Reader, ext string) (*Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".json":
		if err := common.DecodeJSON(r, &doc); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, err
		}
	case ".csv":
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return &doc, nil
}

// decodeCSV 解析上游匯出格式：id,slug,name,ingredients，食材以 | 分隔
func decodeCSV(r io.Reader) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "ingredients"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv missing %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	doc := &Document{}
	for n := 2; ; n++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", n, err)
		}

		record := RecipeRecord{
			ID:   field(row, "id"),
			Slug: field(row, "slug"),
			Name: field(row, "name"),
		}
		if record.ID == "" {
			record.ID = CreateSlug(record.Name)
		}
		if raw := field(row, "ingredients"); raw != "" {
			for _, part := range strings.Split(raw, "|") {
				record.Lines = append(record.Lines, ParseLine(part))
			}
		}
		doc.Recipes = append(doc.Recipes, record)
	}
	return doc, nil
}
