package session

import (
	"encoding/json"

	"github.com/MKhiriev/go-sf-harness/models"
)

func jsonIndent(record *models.SessionRecord) ([]byte, error) {
	return json.MarshalIndent(record, "", "  ")
}
