// Package dto provides data transfer objects for S3 buckets and objects.
package dto

import (
	"fmt"
	"time"
)

// Bucket represents an S3 bucket.
type Bucket struct {
	Name         string     `json:"name"`
	Region       string     `json:"region,omitempty"`
	CreationDate *time.Time `json:"creationDate,omitempty"`
}

// Object is the structure to store the S3 object metadata.
type Object struct {
	Key          string        `json:"key"`
	Size         int64         `json:"size"`
	LastModified *time.Time    `json:"lastmodified,omitempty"`
	StorageClass StorageClass  `json:"storageclass"`
	Restore      *RestoreState `json:"restore,omitempty"`
}

// HumanSize renders a byte count in B/KB/MB/GB for display.
func HumanSize(size int64) string {
	const (
		kb = 1024.0
		mb = kb * 1024.0
		gb = mb * 1024.0
	)
	s := float64(size)
	switch {
	case s > gb:
		return fmt.Sprintf("%.2f GB", s/gb)
	case s > mb:
		return fmt.Sprintf("%.2f MB", s/mb)
	case s > kb:
		return fmt.Sprintf("%.2f KB", s/kb)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
