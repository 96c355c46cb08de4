package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/oceanwatch/config"
	"github.com/techagentng/oceanwatch/models"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink_Store(t *testing.T) {
	putter := &fakePutter{}
	sink := NewS3Sink(putter, "hazards", "analytics")
	summary := models.Summary{
		GeneratedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Total:       3,
	}

	require.NoError(t, sink.Store(context.Background(), summary))
	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "hazards", aws.ToString(putter.inputs[0].Bucket))
	assert.Equal(t, "analytics/2025-03-14/1741953600000000000.json", aws.ToString(putter.inputs[0].Key))
	assert.Equal(t, "application/json", aws.ToString(putter.inputs[0].ContentType))

	var decoded models.Summary
	require.NoError(t, json.Unmarshal(putter.bodies[0], &decoded))
	assert.Equal(t, 3, decoded.Total)
}

func TestS3Sink_StoreError(t *testing.T) {
	sink := NewS3Sink(&fakePutter{err: errors.New("denied")}, "hazards", "")
	assert.Error(t, sink.Store(context.Background(), models.Summary{}))
}

func TestNewS3SinkFromConfig_NoBucket(t *testing.T) {
	sink, err := NewS3SinkFromConfig(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, sink)
}
