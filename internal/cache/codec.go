package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/rxtech-lab/argo-optchain/internal/types"
	optchainerrors "github.com/rxtech-lab/argo-optchain/pkg/errors"
)

// Format names an on-disk artifact format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Codec reads and writes one dataset artifact.
type Codec interface {
	// Format returns the format name recorded in the manifest.
	Format() Format
	// Extension returns the file extension including the dot.
	Extension() string
	// Read decodes the artifact at path. Columns other than date and OHLCV are dropped.
	Read(path string) (types.Dataset, error)
	// Write encodes dataset to path, replacing any existing file.
	Write(path string, dataset types.Dataset) error
}

// NewCodec returns the codec for format.
func NewCodec(format Format) (Codec, error) {
	switch format {
	case FormatCSV, "":
		return CSVCodec{}, nil
	case FormatParquet:
		return ParquetCodec{}, nil
	default:
		return nil, optchainerrors.Newf(optchainerrors.ErrCodeInvalidConfiguration, "unsupported cache format: %s", format)
	}
}

// CSVCodec stores a dataset as a CSV file with a date,open,high,low,close,volume header.
type CSVCodec struct{}

// Format implements Codec.
func (CSVCodec) Format() Format {
	return FormatCSV
}

// Extension implements Codec.
func (CSVCodec) Extension() string {
	return ".csv"
}

// Read implements Codec.
func (CSVCodec) Read(path string) (types.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Dataset{}, err
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return types.NewDataset(nil), nil
	}

	var bars []types.PriceBar
	if err := gocsv.UnmarshalBytes(content, &bars); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return types.NewDataset(nil), nil
		}

		return types.Dataset{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return types.NewDataset(bars), nil
}

// Write implements Codec.
func (CSVCodec) Write(path string, dataset types.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	bars := dataset.Bars
	if bars == nil {
		bars = []types.PriceBar{}
	}

	if err := gocsv.MarshalFile(&bars, file); err != nil {
		file.Close()

		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return file.Close()
}
