package primitive_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-mapper/primitive"
)

func TestIsStorable(t *testing.T) {
	t.Parallel()

	type Status string
	type point struct{ X, Y int }

	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"int64", reflect.TypeFor[int64](), true},
		{"named string", reflect.TypeFor[Status](), true},
		{"duration", reflect.TypeFor[time.Duration](), true},
		{"string slice", reflect.TypeFor[[]string](), true},
		{"float array", reflect.TypeFor[[3]float64](), true},
		{"time", reflect.TypeFor[time.Time](), false},
		{"struct", reflect.TypeFor[point](), false},
		{"pointer", reflect.TypeFor[*int](), false},
		{"map", reflect.TypeFor[map[string]int](), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, primitive.IsStorable(tt.typ))
		})
	}
}

func TestIsSafe(t *testing.T) {
	t.Parallel()

	assert.True(t, primitive.IsSafe(primitive.KindInt8, primitive.KindInt64))
	assert.True(t, primitive.IsSafe(primitive.KindUint32, primitive.KindInt64))
	assert.True(t, primitive.IsSafe(primitive.KindString, primitive.KindString))
	assert.False(t, primitive.IsSafe(primitive.KindInt64, primitive.KindInt32))
	assert.False(t, primitive.IsSafe(primitive.KindFloat64, primitive.KindInt64))
}

func TestConvertNumber(t *testing.T) {
	t.Parallel()

	type Level uint8

	tests := []struct {
		name    string
		value   any
		target  reflect.Type
		want    any
		wantErr bool
	}{
		{"widening", int32(7), reflect.TypeFor[int64](), int64(7), false},
		{"narrowing in range", int64(42), reflect.TypeFor[int32](), int32(42), false},
		{"narrowing overflow", int64(math.MaxInt32 + 1), reflect.TypeFor[int32](), nil, true},
		{"negative to unsigned", int64(-1), reflect.TypeFor[uint16](), nil, true},
		{"unsigned overflow", int64(256), reflect.TypeFor[Level](), nil, true},
		{"unsigned named", int64(255), reflect.TypeFor[Level](), Level(255), false},
		{"whole float to int", float64(12), reflect.TypeFor[int](), 12, false},
		{"fractional float to int", 1.5, reflect.TypeFor[int](), nil, true},
		{"float32 overflow", math.MaxFloat64, reflect.TypeFor[float32](), nil, true},
		{"huge uint to int64", uint64(math.MaxUint64), reflect.TypeFor[int64](), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.ConvertNumber(reflect.ValueOf(tt.value), tt.target)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, primitive.ErrOutOfRange)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvertNumber_NotNumeric(t *testing.T) {
	t.Parallel()

	_, err := primitive.ConvertNumber(reflect.ValueOf("12"), reflect.TypeFor[int]())
	require.Error(t, err)
	assert.NotErrorIs(t, err, primitive.ErrOutOfRange)
}
