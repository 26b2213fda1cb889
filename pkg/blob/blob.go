// Package blob stores the image files behind photo logs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
)

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

var ErrNotFound = errors.New("blob not found")

type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"sizeBytes"`
	ContentType  string            `json:"contentType,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"lastModified"`
}

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}

// OpenFromEnv picks the driver named by TRACKER_BLOB_DRIVER, "fs" when unset.
func OpenFromEnv(ctx context.Context) (Store, error) {
	switch driver := Driver(common.GetenvDefault(common.EnvKeyBlobDriver, string(DriverFilesystem))); driver {
	case DriverFilesystem:
		return NewFSStore(common.GetenvDefault(common.EnvKeyBlobFSRoot, "./blobdata"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}

func cloneMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
