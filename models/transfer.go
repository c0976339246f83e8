package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FileInfo describes an uploaded CSV as reported by the upload endpoint.
type FileInfo struct {
	Filename         string   `json:"filename"`
	OriginalFilename string   `json:"original_filename"`
	Rows             int      `json:"rows"`
	Columns          int      `json:"columns"`
	ColumnNames      []string `json:"column_names"`
	FileSize         int64    `json:"file_size"`
}

// Stats summarizes a single imputation run.
type Stats struct {
	TotalRows        int                `json:"total_rows"`
	TotalColumns     int                `json:"total_columns"`
	NumericColumns   int                `json:"numeric_columns"`
	ColumnMeans      map[string]float64 `json:"column_means"`
	ColumnStdDevs    map[string]float64 `json:"column_std_devs"`
	ImputedCounts    map[string]int     `json:"imputed_counts"`
	TotalImputations int                `json:"total_imputations"`
	MissingDataRate  float64            `json:"missing_data_rate"`
}

// UploadResponse is the 2xx body of POST /api/upload.
type UploadResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	FileInfo FileInfo `json:"file_info"`
}

// ProcessRequest is the body of POST /api/process.
type ProcessRequest struct {
	Filename string `json:"filename"`
}

// ProcessResponse is the 2xx body of POST /api/process.
type ProcessResponse struct {
	Status            string            `json:"status"`
	Message           string            `json:"message"`
	ProcessedFilename string            `json:"processed_filename"`
	Stats             Stats             `json:"stats"`
	PreviewData       []PreviewRow      `json:"preview_data"`
	ImputationFlags   map[string][]bool `json:"imputation_flags"`
	NumericColumns    []string          `json:"numeric_columns"`
}

// CleanupRequest is the body of POST /api/cleanup.
type CleanupRequest struct {
	Filenames []string `json:"filenames"`
}

// CleanupResponse is the 2xx body of POST /api/cleanup.
type CleanupResponse struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	CleanedFiles []string `json:"cleaned_files"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints,omitempty"`
}

// PreviewRow is a single preview record. encoding/json maps discard key
// order, but the preview table derives its column order from the first
// row's key order, so rows round-trip through an ordered representation.
type PreviewRow struct {
	Columns []string
	Values  map[string]interface{}
}

// Get returns the value for a column; missing values decode as nil.
func (r PreviewRow) Get(column string) interface{} {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// MarshalJSON writes the row as a JSON object with keys in column order.
func (r PreviewRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the key order it appeared in.
func (r *PreviewRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("preview row: expected JSON object, got %v", tok)
	}

	r.Columns = nil
	r.Values = make(map[string]interface{})

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("preview row: expected object key, got %v", keyTok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}

		r.Columns = append(r.Columns, key)
		r.Values[key] = normalizeJSONValue(value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// normalizeJSONValue converts json.Number leaves into float64 so callers see
// the same value types a plain json.Unmarshal would produce.
func normalizeJSONValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		for k, vv := range t {
			t[k] = normalizeJSONValue(vv)
		}
		return t
	case []interface{}:
		for i, vv := range t {
			t[i] = normalizeJSONValue(vv)
		}
		return t
	default:
		return v
	}
}
