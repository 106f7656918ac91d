package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/pinpoint/internal/model"
)

// ErrMissingColumn is returned when the input header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

var headerAliases = map[string][]string{
	"orderId":      {"orderid", "order_id", "order id", "order"},
	"customerName": {"customername", "customer_name", "customer name", "name"},
	"rawAddress":   {"rawaddress", "raw_address", "raw address", "address"},
}

// Columns is the header of the batch output.
var Columns = []string{
	"orderId", "customerName", "rawAddress",
	"status", "customerRawName", "customerCleanName",
	"addressLine1", "landmark", "postOffice", "tehsil", "district", "state", "pin",
	"addressQuality", "locationType", "locationSuitability", "remarks", "verifiedAt",
}

// ReadRows parses CSV input with an orderId, customerName, rawAddress header.
// Header names are matched case-insensitively and a few spellings are accepted.
// Only rawAddress is required.
func ReadRows(r io.Reader) ([]model.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	index := mapHeader(header)
	addrIdx, ok := index["rawAddress"]
	if !ok {
		return nil, fmt.Errorf("%w: rawAddress", ErrMissingColumn)
	}

	var rows []model.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}
		if isBlankRecord(record) {
			continue
		}

		row := model.Row{RawAddress: field(record, addrIdx)}
		if i, ok := index["orderId"]; ok {
			row.OrderID = field(record, i)
		}
		if i, ok := index["customerName"]; ok {
			row.CustomerName = field(record, i)
		}
		if row.OrderID == "" {
			row.OrderID = fmt.Sprintf("row-%d", len(rows)+1)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func mapHeader(header []string) map[string]int {
	index := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for column, aliases := range headerAliases {
			if _, seen := index[column]; seen {
				continue
			}
			for _, alias := range aliases {
				if key == alias {
					index[column] = i
				}
			}
		}
	}
	return index
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Values renders one result as an output row matching Columns.
func Values(res model.RowResult) []string {
	rec := res.Record
	verifiedAt := ""
	if !rec.VerifiedAt.IsZero() {
		verifiedAt = rec.VerifiedAt.Format(time.RFC3339)
	}
	return []string{
		res.Row.OrderID,
		res.Row.CustomerName,
		res.Row.RawAddress,
		string(rec.Status),
		rec.CustomerRawName,
		rec.CustomerCleanName,
		rec.AddressLine1,
		rec.Landmark,
		rec.PostOffice,
		rec.Tehsil,
		rec.District,
		rec.State,
		rec.PINValue(),
		string(rec.AddressQuality),
		rec.LocationType,
		string(rec.LocationSuitability),
		rec.Remarks,
		verifiedAt,
	}
}

// ResultWriter receives the output of a batch run in input order.
type ResultWriter interface {
	WriteResults(ctx context.Context, results []model.RowResult) error
}

// CSVWriter writes results as CSV.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a writer over w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// WriteResults writes the header followed by one line per result.
func (c *CSVWriter) WriteResults(_ context.Context, results []model.RowResult) error {
	writer := csv.NewWriter(c.w)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, res := range results {
		if err := writer.Write(Values(res)); err != nil {
			return fmt.Errorf("csv: write row %s: %w", res.Row.OrderID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
