package parsers

import (
	"context"
	"fmt"
	"io"

	"finfeed/internal/models"
	"finfeed/pkg/errors"
	"finfeed/pkg/logger"
)

// CardParser handles parsing of credit-card export CSV files
type CardParser struct {
	*BaseParser
	config *CardParserConfig
	logger logger.Logger
}

// NewCardParser creates a new CardParser with the given configuration
func NewCardParser(config *CardParserConfig) (*CardParser, error) {
	if config == nil {
		config = DefaultCardParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"card_parser_config",
			config,
			err,
		).WithSuggestion("check the card parser configuration values")
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	parseConfig.Delimiter = config.Delimiter

	return &CardParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("card_parser"),
	}, nil
}

// ParseFile parses a credit-card export CSV file
func (cp *CardParser) ParseFile(filePath string) ([]models.Record, *ParseStats, error) {
	return cp.ParseFileWithContext(context.Background(), filePath)
}

// ParseFileWithContext parses a card file with cancellation support.
// Rows without a resolvable ISO date are dropped; malformed amounts become
// zero-value entries. Neither condition aborts the file.
func (cp *CardParser) ParseFileWithContext(ctx context.Context, filePath string) ([]models.Record, *ParseStats, error) {
	cp.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"operation": "parse_card_file",
	}).Info("Starting card file parsing")

	file, reader, err := cp.OpenFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	stats := NewParseStats()

	required := [][]string{
		{cp.config.DateColumn},
		{cp.config.TitleColumn},
		{cp.config.AmountColumn},
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
			cp.config.DateColumn, cp.config.TitleColumn, cp.config.AmountColumn))
	}

	var records []models.Record

	for {
		if parseCtx.IsCancelled() {
			cp.logger.Warn("Card file parsing was cancelled")
			return records, stats, errors.InternalError("card_parsing", fmt.Errorf("parsing cancelled by context"))
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
		if dateStr == "" {
			continue
		}
		date, ok := models.ParseISODate(dateStr)
		if !ok {
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Field:   cp.config.DateColumn,
				Value:   dateStr,
				Message: "unresolvable date, record dropped",
			})
			continue
		}

		title := cp.FieldValue(row, parseCtx, cp.config.TitleColumn)
		amount := models.ParseAmount(cp.FieldValue(row, parseCtx, cp.config.AmountColumn))

		records = append(records, models.NewCardRecord(date, title, amount))
		stats.RecordsValid++
	}

	stats.TotalLines = parseCtx.LineNumber

	cp.logger.WithFields(logger.Fields{
		"file_path":      filePath,
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"records_valid":  stats.RecordsValid,
		"error_count":    stats.ErrorCount,
	}).Info("Card file parsing completed")

	if stats.HasErrors() {
		cp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Encountered errors during parsing")
	}

	return records, stats, nil
}
