package models

import "time"

// Document is an uploaded file owned by a student. The bytes live in the blob
// store under StoragePath; this record is the metadata half.
type Document struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Name        string    `json:"name"`
	StoragePath string    `json:"storage_path"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
