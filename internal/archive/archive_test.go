package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testReport struct {
	OrderID string `json:"orderId"`
	Total   int64  `json:"total"`
}

// mockWriter is a mock implementation of the Writer interface for testing.
type mockWriter struct {
	writeFunc func(ctx context.Context, key string, report any) (string, error)
}

func (m *mockWriter) Write(ctx context.Context, key string, report any) (string, error) {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, key, report)
	}
	return "", errors.New("not implemented")
}

// mockPutObject records uploads in memory.
type mockPutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockPutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestReportKey(t *testing.T) {
	id := uuid.MustParse("6f1c0f0e-8a3b-4a59-9a43-2d4d1b0c9e11")
	failure := &model.SubscriptionFailure{
		ID:        id,
		OrderID:   "order_1",
		CreatedAt: time.Date(2026, 2, 3, 23, 0, 0, 0, time.UTC),
	}

	assert.Equal(t,
		"subscription-failures/2026/02/03/order_1-6f1c0f0e-8a3b-4a59-9a43-2d4d1b0c9e11.json.gz",
		ReportKey(failure),
	)
}

func TestFileWriter_WritesGzippedJSON(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, zerolog.Nop())

	location, err := writer.Write(context.Background(), "a/b/report.json.gz", testReport{OrderID: "order_1", Total: 4999})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b", "report.json.gz"), location)

	file, err := os.Open(location)
	require.NoError(t, err)
	defer file.Close()

	var got testReport
	require.NoError(t, Decode(file, &got))
	assert.Equal(t, testReport{OrderID: "order_1", Total: 4999}, got)
}

func TestFileWriter_CancelledContext(t *testing.T) {
	writer := NewFileWriter(t.TempDir(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := writer.Write(ctx, "report.json.gz", testReport{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3Writer_Write(t *testing.T) {
	client := &mockPutObject{}
	writer := newS3Writer(client, "recovery", "storefront/", zerolog.Nop())

	location, err := writer.Write(context.Background(), "report.json.gz", testReport{OrderID: "order_2"})

	require.NoError(t, err)
	assert.Equal(t, "s3://recovery/storefront/report.json.gz", location)
	assert.Equal(t, "recovery", *client.input.Bucket)
	assert.Equal(t, "storefront/report.json.gz", *client.input.Key)
	assert.Equal(t, "gzip", *client.input.ContentEncoding)

	var got testReport
	require.NoError(t, Decode(bytes.NewReader(client.body), &got))
	assert.Equal(t, "order_2", got.OrderID)
}

func TestS3Writer_Error(t *testing.T) {
	client := &mockPutObject{err: errors.New("access denied")}
	writer := newS3Writer(client, "recovery", "", zerolog.Nop())

	_, err := writer.Write(context.Background(), "report.json.gz", testReport{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object to S3")
}

func TestFallbackWriter(t *testing.T) {
	tests := []struct {
		name             string
		s3Enabled        bool
		s3Err            error
		expectedLocation string
		expectFileCall   bool
	}{
		{
			name:             "S3 succeeds",
			s3Enabled:        true,
			expectedLocation: "s3://bucket/key",
		},
		{
			name:             "S3 fails falls back to local",
			s3Enabled:        true,
			s3Err:            errors.New("S3 connection failed"),
			expectedLocation: "/tmp/key",
			expectFileCall:   true,
		},
		{
			name:             "S3 disabled uses local",
			s3Enabled:        false,
			expectedLocation: "/tmp/key",
			expectFileCall:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s3Calls, fileCalls := 0, 0
			s3w := &mockWriter{writeFunc: func(ctx context.Context, key string, report any) (string, error) {
				s3Calls++
				if tt.s3Err != nil {
					return "", tt.s3Err
				}
				return "s3://bucket/" + key, nil
			}}
			file := &mockWriter{writeFunc: func(ctx context.Context, key string, report any) (string, error) {
				fileCalls++
				return "/tmp/" + key, nil
			}}

			writer := NewFallbackWriter(s3w, file, tt.s3Enabled, zerolog.Nop())
			location, err := writer.Write(context.Background(), "key", testReport{})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedLocation, location)
			assert.Equal(t, tt.expectFileCall, fileCalls == 1)
			if !tt.s3Enabled {
				assert.Zero(t, s3Calls)
			}
		})
	}
}

func TestFallbackWriter_NilS3Writer(t *testing.T) {
	dir := t.TempDir()
	writer := NewFallbackWriter(nil, NewFileWriter(dir, zerolog.Nop()), true, zerolog.Nop())

	location, err := writer.Write(context.Background(), "report.json.gz", testReport{OrderID: "order_3"})

	require.NoError(t, err)
	assert.FileExists(t, location)
}
