package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

func ToJson(summary *Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

// FromJsonFile loads a summary written by ToJson.
func FromJsonFile(fs afero.Fs, jsonFile string) (*Summary, error) {
	jsonData, err := afero.ReadFile(fs, jsonFile)
	if err != nil {
		return nil, err
	}
	return FromJsonByteArray(jsonData)
}

func FromJsonByteArray(jsonData []byte) (*Summary, error) {
	s := &Summary{}
	if err := json.Unmarshal(jsonData, s); err != nil {
		return nil, fmt.Errorf("invalid summary: %w", err)
	}
	if s.RunID == "" {
		return nil, errors.New("invalid summary: missing run_id")
	}
	return s, nil
}
