package web

import (
	"encoding/json"

	"github.com/sweeney/taiko-sensor/internal/status"
)

func formatJSON(snap status.Snapshot) []byte {
	data, _ := json.MarshalIndent(status.Build(snap, "", ""), "", "  ")
	return data
}
