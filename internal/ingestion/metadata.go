package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes one uploaded file.
type Metadata struct {
	Filename  string `json:"filename"`
	FileType  string `json:"file_type"` // extension without the dot
	FileSize  int    `json:"file_size"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw bytes
	Encoding  string `json:"encoding,omitempty"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename, fileType string, content []byte) *Metadata {
	return &Metadata{
		Filename:  filename,
		FileType:  fileType,
		FileSize:  len(content),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
