// Package parsers provides CSV parsing for the statement exports the
// pipeline consumes.
//
// Two formats are supported:
//   - CardParser: credit-card exports with date/title/amount columns,
//     ISO dates and positive-only amounts
//   - CheckingParser: checking-account exports with Data/Valor/
//     Identificador/Descrição columns, DD/MM/YYYY dates and signed amounts
//
// Both parsers are tolerant by design: a malformed amount becomes a
// zero-value entry, an unresolvable date drops the row, and neither aborts
// the file. Real exports mix encodings of the same header (Descrição vs
// Descricao), so column lookup is case-insensitive with alias support.
package parsers

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"finfeed/pkg/errors"
	"finfeed/pkg/logger"
)

// ParseError represents an error that occurred during CSV parsing
type ParseError struct {
	Line    int
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at line %d (%s='%s'): %s: %v",
			e.Line, e.Field, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error at line %d (%s='%s'): %s",
		e.Line, e.Field, e.Value, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseConfig holds configuration for CSV parsing
type ParseConfig struct {
	HasHeader        bool
	Delimiter        rune
	TrimLeadingSpace bool
	SkipEmptyRows    bool
	ValidateEncoding bool
}

// DefaultParseConfig returns a configuration with sensible defaults
func DefaultParseConfig() *ParseConfig {
	return &ParseConfig{
		HasHeader:        true,
		Delimiter:        ',',
		TrimLeadingSpace: true,
		SkipEmptyRows:    true,
		ValidateEncoding: true,
	}
}

// BaseParser provides common CSV parsing functionality
type BaseParser struct {
	config *ParseConfig
	logger logger.Logger
}

// NewBaseParser creates a new BaseParser with the given configuration
func NewBaseParser(config *ParseConfig) *BaseParser {
	if config == nil {
		config = DefaultParseConfig()
	}

	return &BaseParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("base_parser"),
	}
}

// ParseContext holds state during parsing operations
type ParseContext struct {
	LineNumber int
	Headers    []string
	HeaderMap  map[string]int
	ctx        context.Context
}

// NewParseContext creates a new parsing context
func NewParseContext(ctx context.Context) *ParseContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ParseContext{
		HeaderMap: make(map[string]int),
		ctx:       ctx,
	}
}

// IsCancelled checks if the parsing context has been cancelled
func (pc *ParseContext) IsCancelled() bool {
	select {
	case <-pc.ctx.Done():
		return true
	default:
		return false
	}
}

// GetColumnIndex returns the index of a column by name, or -1 if not found.
// Lookup falls back to case-insensitive matching for header variations.
func (pc *ParseContext) GetColumnIndex(name string) int {
	if index, exists := pc.HeaderMap[name]; exists {
		return index
	}

	lowerName := strings.ToLower(name)
	for header, index := range pc.HeaderMap {
		if strings.ToLower(header) == lowerName {
			return index
		}
	}

	return -1
}

// OpenFile opens a CSV file and returns a csv.Reader
func (bp *BaseParser) OpenFile(filePath string) (*os.File, *csv.Reader, error) {
	bp.logger.WithField("file_path", filePath).Debug("Opening CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		bp.logger.WithError(err).WithField("file_path", filePath).Error("Failed to open CSV file")

		if os.IsNotExist(err) {
			return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return nil, nil, errors.FileError(errors.CodeFilePermission, filePath, err)
		}
		return nil, nil, errors.FileError("", filePath, err)
	}

	if bp.config.ValidateEncoding {
		if err := bp.validateEncoding(file, filePath); err != nil {
			file.Close()
			return nil, nil, err
		}
		if _, err := file.Seek(0, 0); err != nil {
			file.Close()
			return nil, nil, errors.FileError("", filePath, err)
		}
	}

	reader := csv.NewReader(file)
	reader.Comma = bp.config.Delimiter
	reader.TrimLeadingSpace = bp.config.TrimLeadingSpace
	reader.FieldsPerRecord = -1

	return file, reader, nil
}

// validateEncoding checks the first lines of the file for valid UTF-8.
// Statement exports carry accented Portuguese text, so a wrong encoding
// surfaces quickly and is better rejected up front than silently mangled.
func (bp *BaseParser) validateEncoding(file *os.File, filePath string) error {
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() && lineNum < 100 {
		lineNum++
		if !utf8.Valid(scanner.Bytes()) {
			return errors.ParseError(
				errors.CodeInvalidFormat,
				filePath,
				lineNum,
				"encoding",
				"",
				fmt.Errorf("invalid UTF-8 encoding detected"),
			).WithSuggestion("save the file in UTF-8 encoding and try again")
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.FileError("", filePath, err)
	}

	return nil
}

// ReadHeaders reads the header row and validates required columns are
// present. Each entry of required is a list of accepted names for one
// logical column; the first present name wins.
func (bp *BaseParser) ReadHeaders(reader *csv.Reader, parseCtx *ParseContext, required [][]string) error {
	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return errors.ValidationError(
				errors.CodeEmptyDataset,
				"file_content",
				"empty",
				nil,
			).WithSuggestion("ensure the file contains header and data rows")
		}
		return errors.ParseError(errors.CodeInvalidFormat, "", 1, "headers", "", err)
	}

	parseCtx.LineNumber++
	parseCtx.Headers = make([]string, len(headers))
	parseCtx.HeaderMap = make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		parseCtx.Headers[i] = h
		parseCtx.HeaderMap[h] = i
	}

	var missing []string
	for _, candidates := range required {
		found := false
		for _, name := range candidates {
			if parseCtx.GetColumnIndex(name) != -1 {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, candidates[0])
		}
	}
	if len(missing) > 0 {
		bp.logger.WithFields(logger.Fields{
			"missing_headers":   missing,
			"available_headers": parseCtx.Headers,
		}).Error("Required headers are missing")

		return errors.ParseError(
			errors.CodeMissingColumn,
			"",
			parseCtx.LineNumber,
			strings.Join(missing, ", "),
			"",
			nil,
		)
	}

	return nil
}

// ReadRecord reads the next CSV record, skipping empty rows
func (bp *BaseParser) ReadRecord(reader *csv.Reader, parseCtx *ParseContext) ([]string, error) {
	for {
		if parseCtx.IsCancelled() {
			return nil, errors.InternalError("csv_parsing", fmt.Errorf("parsing cancelled"))
		}

		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil, err
			}
			bp.logger.WithError(err).WithField("line_number", parseCtx.LineNumber+1).Warn("Failed to read CSV record")
			return nil, err
		}

		parseCtx.LineNumber++

		if bp.config.SkipEmptyRows && isEmptyRecord(record) {
			continue
		}

		return record, nil
	}
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// FieldValue retrieves a trimmed field value by column name, trying each
// accepted name in order. Returns an empty string when no column matches or
// the row is short.
func (bp *BaseParser) FieldValue(record []string, parseCtx *ParseContext, names ...string) string {
	for _, name := range names {
		index := parseCtx.GetColumnIndex(name)
		if index == -1 || index >= len(record) {
			continue
		}
		return strings.TrimSpace(record[index])
	}
	return ""
}

// ParseStats holds statistics about a parsing operation
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	RecordsValid  int
	ErrorCount    int
	Errors        []*ParseError
}

// NewParseStats creates a new ParseStats instance
func NewParseStats() *ParseStats {
	return &ParseStats{
		Errors: make([]*ParseError, 0),
	}
}

// AddError adds an error to the parsing statistics
func (ps *ParseStats) AddError(err *ParseError) {
	ps.Errors = append(ps.Errors, err)
	ps.ErrorCount++
}

// HasErrors returns true if there were any parsing errors
func (ps *ParseStats) HasErrors() bool {
	return ps.ErrorCount > 0
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d lines, %d records (%d valid), %d errors",
		ps.TotalLines, ps.RecordsParsed, ps.RecordsValid, ps.ErrorCount)
}

// GetSampleErrors returns a sample of the parsing errors for logging
func (ps *ParseStats) GetSampleErrors(maxSamples int) []string {
	if len(ps.Errors) == 0 {
		return nil
	}

	limit := len(ps.Errors)
	if maxSamples > 0 && maxSamples < limit {
		limit = maxSamples
	}

	samples := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		samples = append(samples, ps.Errors[i].Error())
	}
	return samples
}
