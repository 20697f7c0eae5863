package parsers

import (
	"context"
	"fmt"
	"io"

	"finfeed/internal/models"
	"finfeed/pkg/errors"
	"finfeed/pkg/logger"
)

// CheckingParser handles parsing of checking-account export CSV files
type CheckingParser struct {
	*BaseParser
	config *CheckingParserConfig
	logger logger.Logger
}

// NewCheckingParser creates a new CheckingParser with the given configuration
func NewCheckingParser(config *CheckingParserConfig) (*CheckingParser, error) {
	if config == nil {
		config = DefaultCheckingParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"checking_parser_config",
			config,
			err,
		).WithSuggestion("check the checking parser configuration values")
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	parseConfig.Delimiter = config.Delimiter

	return &CheckingParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("checking_parser"),
	}, nil
}

// ParseFile parses a checking-account export CSV file
func (cp *CheckingParser) ParseFile(filePath string) ([]models.Record, *ParseStats, error) {
	return cp.ParseFileWithContext(context.Background(), filePath)
}

// ParseFileWithContext parses a checking file with cancellation support.
// Dates are DD/MM/YYYY and mandatory: rows without a resolvable date are
// dropped. Amounts are signed; malformed amounts become zero-value entries.
// Entity and category assignment happen downstream; the parser only
// normalizes the raw columns.
func (cp *CheckingParser) ParseFileWithContext(ctx context.Context, filePath string) ([]models.Record, *ParseStats, error) {
	cp.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"operation": "parse_checking_file",
	}).Info("Starting checking file parsing")

	file, reader, err := cp.OpenFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	stats := NewParseStats()

	required := [][]string{
		{cp.config.DateColumn},
		{cp.config.AmountColumn},
		cp.config.DescriptionColumns,
	}
	if err := cp.ReadHeaders(reader, parseCtx, required); err != nil {
		cp.logger.WithError(err).WithField("file_path", filePath).Error("Failed to read or validate headers")
		return nil, stats, errors.ParseError(
			errors.CodeMissingColumn,
			filePath,
			parseCtx.LineNumber,
			"headers",
			"",
			err,
		).WithSuggestion(fmt.Sprintf("ensure the CSV file has the columns: %s, %s, %s",
			cp.config.DateColumn, cp.config.AmountColumn, cp.config.DescriptionColumns[0]))
	}

	var records []models.Record

	for {
		if parseCtx.IsCancelled() {
			cp.logger.Warn("Checking file parsing was cancelled")
			return records, stats, errors.InternalError("checking_parsing", fmt.Errorf("parsing cancelled by context"))
		}

		row, err := cp.ReadRecord(reader, parseCtx)
		if err != nil {
			if err == io.EOF {
				break
			}
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Message: "failed to read record",
				Err:     err,
			})
			continue
		}

		stats.RecordsParsed++

		dateStr := cp.FieldValue(row, parseCtx, cp.config.DateColumn)
		date, ok := models.ParseBRDate(dateStr)
		if !ok {
			if dateStr != "" {
				stats.AddError(&ParseError{
					Line:    parseCtx.LineNumber,
					Field:   cp.config.DateColumn,
					Value:   dateStr,
					Message: "unresolvable date, record dropped",
				})
			}
			continue
		}

		amount := models.ParseAmount(cp.FieldValue(row, parseCtx, cp.config.AmountColumn))
		description := cp.FieldValue(row, parseCtx, cp.config.DescriptionColumns...)

		records = append(records, models.NewCheckingRecord(date, "", description, amount))
		stats.RecordsValid++
	}

	stats.TotalLines = parseCtx.LineNumber

	cp.logger.WithFields(logger.Fields{
		"file_path":      filePath,
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"records_valid":  stats.RecordsValid,
		"error_count":    stats.ErrorCount,
	}).Info("Checking file parsing completed")

	if stats.HasErrors() {
		cp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Encountered errors during parsing")
	}

	return records, stats, nil
}
