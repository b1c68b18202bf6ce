package lode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		wantKind error
	}{
		{"context deadline exceeded", "context deadline exceeded", ErrTimeout},
		{"timeout in message", "connection timeout after 30s", ErrTimeout},
		{"AccessDenied response", "AccessDenied: you do not have access", ErrAccessDenied},
		{"HTTP 403", "received status 403", ErrAccessDenied},
		{"permission denied", "permission denied for /data/output", ErrPermissionDenied},
		{"EACCES errno", "open /tmp/file: EACCES", ErrPermissionDenied},
		{"no space left on device", "write /data/output: no space left on device", ErrDiskFull},
		{"quota exceeded", "quota exceeded for user", ErrDiskFull},
		{"no such file", "no such file or directory", ErrNotFound},
		{"NoSuchKey S3", "NoSuchKey: The specified key does not exist", ErrNotFound},
		{"HTTP 429", "received status 429", ErrThrottled},
		{"SlowDown S3", "SlowDown: please reduce request rate", ErrThrottled},
		{"NoCredentialProviders", "NoCredentialProviders: no valid credential providers", ErrAuth},
		{"ExpiredToken", "ExpiredToken: the security token has expired", ErrAuth},
		{"connection refused", "dial tcp 127.0.0.1:9000: connection refused", ErrNetwork},
		{"DNS resolution failure", "DNS lookup failed for bucket.s3.amazonaws.com", ErrNetwork},
		{"unrecognized error", "something completely unexpected happened", ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(errors.New(tt.errMsg))
			if !errors.Is(got, tt.wantKind) {
				t.Errorf("classifyError(%q) = %v, want %v", tt.errMsg, got, tt.wantKind)
			}
		})
	}
}

func TestClassifyError_Typed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"fs not exist", fmt.Errorf("open: %w", os.ErrNotExist), ErrNotFound},
		{"fs permission", fmt.Errorf("mkdir: %w", os.ErrPermission), ErrPermissionDenied},
		{"deadline", fmt.Errorf("put: %w", context.DeadlineExceeded), ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classifyError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if got := classifyError(nil); got != nil {
		t.Errorf("classifyError(nil) = %v, want nil", got)
	}
}

func TestWrapErrors(t *testing.T) {
	cause := errors.New("no such file or directory")

	err := WrapReadError(cause, "snapshot/1")
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("WrapReadError returned %T", err)
	}
	if se.Op != "read" || se.Path != "snapshot/1" {
		t.Errorf("StorageError = %+v", se)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not in chain")
	}

	// Already-classified errors are not wrapped twice.
	if again := WrapWriteError(err, "other"); again != err {
		t.Errorf("re-wrapped a StorageError: %v", again)
	}

	if WrapWriteError(nil, "x") != nil || WrapInitError(nil, "x") != nil {
		t.Error("wrapping nil must return nil")
	}
}
