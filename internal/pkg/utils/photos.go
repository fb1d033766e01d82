package utils

import (
	"encoding/json"
	"strings"
)

// PhotosToString serializes a photo gallery for the JSON text column.
func PhotosToString(photos []string) string {
	if len(photos) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(photos)
	return string(data)
}

// StringToPhotos parses the stored gallery column back into a slice.
func StringToPhotos(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(s), &photos); err != nil {
		// Legacy rows kept comma-separated lists.
		return strings.Split(s, ",")
	}
	return photos
}
