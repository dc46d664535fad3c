package database

import (
	"errors"
	"testing"
	"time"

	"recondo/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	// Logical database indexes must stay stable; clients select by index
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, SETTINGS_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Equal(t, log, db.log)
	assert.Nil(t, db.SQL)
}

func TestNewCacheBuilder_KeyTypes(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		builder  *CacheBuilder
		expected string
	}{
		{
			name:     "string key",
			builder:  NewCacheBuilder(nil, "settings:dealership"),
			expected: "settings:dealership",
		},
		{
			name:     "uuid key",
			builder:  NewCacheBuilder(nil, id),
			expected: id.String(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.builder.key)
			assert.Equal(t, 1*time.Hour, tc.builder.ttl)
			assert.Equal(t, 5*time.Second, tc.builder.ctxTimeout)
		})
	}
}

func TestCacheBuilder_WithHash(t *testing.T) {
	builder := NewCacheBuilder(nil, "vehicle-checklist").WithHash("dealership-a")
	assert.Equal(t, "dealership-a:vehicle-checklist", builder.key)

	// Empty hash leaves the key untouched
	builder = NewCacheBuilder(nil, "vehicle-checklist").WithHash("")
	assert.Equal(t, "vehicle-checklist", builder.key)
}

func TestCacheBuilder_WithStruct(t *testing.T) {
	type payload struct {
		Progress int    `json:"progress"`
		Badge    string `json:"badge"`
	}

	builder := NewCacheBuilder(nil, "checklist").WithStruct(payload{Progress: 80, Badge: "4/5"})
	assert.NoError(t, builder.err)
	assert.JSONEq(t, `{"progress":80,"badge":"4/5"}`, builder.value)

	// Unmarshalable values surface the error on the builder
	builder = NewCacheBuilder(nil, "checklist").WithStruct(make(chan int))
	assert.Error(t, builder.err)
}

func TestCacheBuilder_SetValidation(t *testing.T) {
	builder := NewCacheBuilder(nil, "")
	err := builder.Set()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "key is required")

	builder = NewCacheBuilder(nil, "some-key")
	err = builder.Set()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "value is required")
}

func TestCacheBuilder_GetValidation(t *testing.T) {
	var result map[string]any

	builder := NewCacheBuilder(nil, "")
	found, err := builder.Get(&result)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestIsKeyNotFoundError(t *testing.T) {
	assert.False(t, isKeyNotFoundError(nil))
	assert.False(t, isKeyNotFoundError(assert.AnError))
	assert.True(t, isKeyNotFoundError(errKeyMissing))
}

var errKeyMissing = errors.New("valkey: key not found")
