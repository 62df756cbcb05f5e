package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/newsverdict/internal/model"
)

// Output file names written into the output directory.
const (
	RawArticlesFile = "raw_articles.json"
	AnalysisFile    = "analysis_results.json"
	MarkdownFile    = "final_report.md"
)

const (
	dirPerm  = 0750
	filePerm = 0600
)

// RawArticlesMetadata describes a raw_articles.json file.
type RawArticlesMetadata struct {
	FetchedAt     time.Time `json:"fetched_at"`
	TotalArticles int       `json:"total_articles"`
	Source        string    `json:"source"`
}

// RawArticlesFileContent is the layout of raw_articles.json.
type RawArticlesFileContent struct {
	Metadata RawArticlesMetadata `json:"metadata"`
	Articles []model.RawArticle  `json:"articles"`
}

// SaveRawArticles writes the fetched articles to raw_articles.json in dir
// and returns the file path.
func SaveRawArticles(dir, source string, fetchedAt time.Time, articles []model.RawArticle) (string, error) {
	if articles == nil {
		articles = []model.RawArticle{}
	}

	data, err := json.MarshalIndent(RawArticlesFileContent{
		Metadata: RawArticlesMetadata{
			FetchedAt:     fetchedAt,
			TotalArticles: len(articles),
			Source:        source,
		},
		Articles: articles,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize raw articles: %w", err)
	}

	return writeFile(dir, RawArticlesFile, append(data, '\n'))
}

// Files lists the report files written by SaveFiles.
type Files struct {
	Analysis string
	Markdown string
}

// SaveFiles writes analysis_results.json and final_report.md for report into dir.
func SaveFiles(dir string, report *model.Report, version string) (Files, error) {
	var jsonBuf bytes.Buffer
	if _, err := NewFullJSONWriter(&jsonBuf, version, WithPrettyPrint()).Write(report); err != nil {
		return Files{}, fmt.Errorf("failed to render JSON report: %w", err)
	}
	analysisPath, err := writeFile(dir, AnalysisFile, jsonBuf.Bytes())
	if err != nil {
		return Files{}, err
	}

	var mdBuf bytes.Buffer
	if _, err := NewMarkdownWriter(&mdBuf).Write(report); err != nil {
		return Files{}, fmt.Errorf("failed to render markdown report: %w", err)
	}
	markdownPath, err := writeFile(dir, MarkdownFile, mdBuf.Bytes())
	if err != nil {
		return Files{}, err
	}

	return Files{Analysis: analysisPath, Markdown: markdownPath}, nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
